package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bluecalif/bookforge/internal/api"
	"github.com/bluecalif/bookforge/internal/structure"
)

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Inspect or apply a book's chapter structure",
}

var structureCandidatesCmd = &cobra.Command{
	Use:   "candidates <book-id>",
	Short: "Print the auto-detected structure and chapter-title candidates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, orch, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}

		s, candidates, err := orch.StructureCandidates(ctx, args[0])
		if err != nil {
			return fmt.Errorf("structure_candidates failed: %w", err)
		}
		return api.Output(map[string]any{
			"structure":  s,
			"candidates": candidates,
		})
	},
}

var structureApplyFile string

var structureApplyCmd = &cobra.Command{
	Use:   "apply <book-id>",
	Short: "Apply a reviewed Structure to a book, advancing it to structured",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, orch, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		if structureApplyFile == "" {
			return fmt.Errorf("--file is required: a JSON-encoded structure.Structure")
		}

		data, err := os.ReadFile(structureApplyFile)
		if err != nil {
			return fmt.Errorf("failed to read structure file: %w", err)
		}
		var s structure.Structure
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode structure file: %w", err)
		}

		book, err := orch.ApplyStructure(ctx, args[0], s)
		if err != nil {
			return fmt.Errorf("apply_structure failed: %w", err)
		}
		return api.Output(book)
	},
}

func init() {
	structureApplyCmd.Flags().StringVar(&structureApplyFile, "file", "", "path to a JSON-encoded structure.Structure")
	structureCmd.AddCommand(structureCandidatesCmd, structureApplyCmd)
}
