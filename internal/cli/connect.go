package cli

import (
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
	"github.com/matzehuels/skillflow/pkg/workflow"
)

func (c *CLI) connectCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "connect <file> <from> <to>",
		Short:             "Connect two nodes",
		Long:              "Add a directed connection between two existing nodes. Nodes are given by id, unique id prefix or unique title.",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: completeNodeArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			var from, to workflow.Node
			_, err := editProject(args[0], noticeLogger(logger), func(ed *workflow.Editor) error {
				p := ed.Snapshot()
				fromID, err := resolveNodeID(p, args[1])
				if err != nil {
					return err
				}
				toID, err := resolveNodeID(p, args[2])
				if err != nil {
					return err
				}
				if _, err := ed.Connect(fromID, toID); err != nil {
					return err
				}
				from, _ = p.Node(fromID)
				to, _ = p.Node(toID)
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("%s %s %s", StyleValue.Render(from.Title), StyleDim.Render(iconArrow), StyleValue.Render(to.Title))
			return nil
		},
	}
}

func (c *CLI) disconnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "disconnect <file> <from> <to>",
		Short:             "Remove every connection from one node to another",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: completeNodeArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			var removed int
			_, err := editProject(args[0], noticeLogger(logger), func(ed *workflow.Editor) error {
				p := ed.Snapshot()
				fromID, err := resolveEndpoint(p, args[1])
				if err != nil {
					return err
				}
				toID, err := resolveEndpoint(p, args[2])
				if err != nil {
					return err
				}
				removed = ed.Disconnect(fromID, toID)
				return nil
			})
			if err != nil {
				return err
			}
			if removed == 0 {
				printWarning("No connection from %s to %s", args[1], args[2])
			}
			return nil
		},
	}
}

// resolveEndpoint is resolveNodeID that also accepts the raw ID of a node
// that no longer exists, so dangling connections can be removed.
func resolveEndpoint(p workflow.Project, ref string) (string, error) {
	id, err := resolveNodeID(p, ref)
	if apperrors.Is(err, apperrors.ErrCodeNotFound) {
		return ref, nil
	}
	return id, err
}
