package vectorstore

import "clusterviz/internal/domain"

// Storage persists entity vectors and supports similarity search.
type Storage = domain.VectorIndex
