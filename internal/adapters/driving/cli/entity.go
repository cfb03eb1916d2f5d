package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grimorium/internal/core/domain"
)

var entityListType string

var entityCmd = &cobra.Command{
	Use:   "entity",
	Short: "Manage world-building entities",
	Long:  `Register the characters, places and items that links point to.`,
}

var entityAddCmd = &cobra.Command{
	Use:   "add [type] [id] [name...]",
	Short: "Register or rename an entity",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runEntityAdd,
}

var entityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered entities",
	RunE:  runEntityList,
}

func init() {
	entityListCmd.Flags().StringVar(&entityListType, "type", "", "only list entities of this type")

	entityCmd.AddCommand(entityAddCmd)
	entityCmd.AddCommand(entityListCmd)
	rootCmd.AddCommand(entityCmd)
}

func runEntityAdd(cmd *cobra.Command, args []string) error {
	if entityService == nil {
		return errors.New("entity service not configured")
	}
	entity := domain.Entity{
		Type: args[0],
		ID:   args[1],
		Name: strings.Join(args[2:], " "),
	}
	if err := entityService.Add(cmd.Context(), entity); err != nil {
		return fmt.Errorf("failed to add entity: %w", err)
	}
	cmd.Printf("Registered %s/%s\n", entity.Type, entity.ID)
	return nil
}

func runEntityList(cmd *cobra.Command, _ []string) error {
	if entityService == nil {
		return errors.New("entity service not configured")
	}
	entities, err := entityService.List(cmd.Context(), entityListType)
	if err != nil {
		return fmt.Errorf("failed to list entities: %w", err)
	}
	if len(entities) == 0 {
		cmd.Println("No entities found.")
		return nil
	}
	cmd.Println("Entities:")
	for i := range entities {
		cmd.Printf("  %s/%s  %s\n", entities[i].Type, entities[i].ID, entities[i].Name)
	}
	return nil
}
