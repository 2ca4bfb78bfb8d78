package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"clusterviz/internal/domain"
	"clusterviz/internal/embedding/textfile"
	"clusterviz/internal/vectorstore/qdrant"
)

const pushBatchSize = 256

func newPushCmd(a *app) *cobra.Command {
	var input string
	var recreate bool
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Upload a vector file into the configured Qdrant collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Embeddings.Qdrant == nil {
				return errors.New("qdrant config missing")
			}
			vectors, err := textfile.NewSource(input).Vectors(cmd.Context(), nil)
			if err != nil {
				return err
			}
			st := newQdrant(a.cfg.Embeddings.Qdrant)
			if err := push(cmd.Context(), st, vectors, recreate); err != nil {
				return err
			}
			a.logger.Info("vectors pushed", "collection", a.cfg.Embeddings.Qdrant.Collection, "count", len(vectors))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Vector file to upload")
	cmd.Flags().BoolVar(&recreate, "recreate", false, "Drop the collection before uploading")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func push(ctx context.Context, st *qdrant.Storage, vectors []domain.EntityVector, recreate bool) error {
	if recreate {
		if err := st.Clear(); err != nil {
			return err
		}
	}
	if err := st.Init(ctx, len(vectors[0].Vector)); err != nil {
		return err
	}
	for start := 0; start < len(vectors); start += pushBatchSize {
		end := min(start+pushBatchSize, len(vectors))
		if err := st.Upsert(ctx, vectors[start:end]); err != nil {
			return err
		}
	}
	return nil
}
