package cli

import (
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
	"github.com/matzehuels/skillflow/pkg/workflow"
)

// nodeCommand groups the node editing subcommands.
func (c *CLI) nodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Add, remove or edit nodes of a project",
	}
	cmd.AddCommand(c.nodeAddCommand())
	cmd.AddCommand(c.nodeRemoveCommand())
	cmd.AddCommand(c.nodeSetCommand())
	return cmd
}

type nodeAddOpts struct {
	x, y        float64
	title       string
	description string
}

func (c *CLI) nodeAddCommand() *cobra.Command {
	var opts nodeAddOpts

	cmd := &cobra.Command{
		Use:               "add <file> <kind>",
		Short:             "Add a node (kinds: " + kindList() + ")",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKindArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := workflow.ParseKind(args[1])
			if err != nil {
				return err
			}
			return runNodeAdd(cmd, args[0], kind, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.x, "x", 40, "canvas x position")
	cmd.Flags().Float64Var(&opts.y, "y", 100, "canvas y position")
	cmd.Flags().StringVar(&opts.title, "title", "", "node title (default \"<Kind> <n>\")")
	cmd.Flags().StringVar(&opts.description, "description", "", "node description (default per kind)")

	return cmd
}

func runNodeAdd(cmd *cobra.Command, path string, kind workflow.Kind, opts nodeAddOpts) error {
	logger := loggerFromContext(cmd.Context())

	var added workflow.Node
	_, err := editProject(path, noticeLogger(logger), func(ed *workflow.Editor) error {
		n, err := ed.AddNode(kind, opts.x, opts.y)
		if err != nil {
			return err
		}
		patch := workflow.NodePatch{}
		if cmd.Flags().Changed("title") {
			patch.Title = workflow.Text(opts.title)
		}
		if cmd.Flags().Changed("description") {
			patch.Description = workflow.Text(opts.description)
		}
		ed.UpdateNode(n.ID, patch)
		added, _ = ed.Snapshot().Node(n.ID)
		return nil
	})
	if err != nil {
		return err
	}

	printSuccess("%s %s", kindChip(added.Kind), StyleValue.Render(added.Title))
	printDetail("id %s at (%g, %g)", added.ID, added.Position.X, added.Position.Y)
	return nil
}

func (c *CLI) nodeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm <file> <node>",
		Aliases:           []string{"remove", "delete"},
		Short:             "Remove a node and its connections",
		Long:              "Remove a node and every connection that touches it. <node> is an id, a unique id prefix or a unique title.",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeNodeArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			var removed int
			_, err := editProject(args[0], noticeLogger(logger), func(ed *workflow.Editor) error {
				p := ed.Snapshot()
				id, err := resolveNodeID(p, args[1])
				if err != nil {
					return err
				}
				before := len(p.Connections)
				ed.DeleteNode(id)
				removed = before - len(ed.Snapshot().Connections)
				return nil
			})
			if err != nil {
				return err
			}
			if removed > 0 {
				printDetail("%d connections removed", removed)
			}
			return nil
		},
	}
}

type nodeSetOpts struct {
	title       string
	description string
}

func (c *CLI) nodeSetCommand() *cobra.Command {
	var opts nodeSetOpts

	cmd := &cobra.Command{
		Use:               "set <file> <node>",
		Short:             "Change a node's title or description",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeNodeArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := workflow.NodePatch{}
			if cmd.Flags().Changed("title") {
				patch.Title = workflow.Text(opts.title)
			}
			if cmd.Flags().Changed("description") {
				patch.Description = workflow.Text(opts.description)
			}
			if patch.Title == nil && patch.Description == nil {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "nothing to change (use --title or --description)")
			}

			var updated workflow.Node
			_, err := editProject(args[0], workflow.NopNotifier{}, func(ed *workflow.Editor) error {
				id, err := resolveNodeID(ed.Snapshot(), args[1])
				if err != nil {
					return err
				}
				ed.UpdateNode(id, patch)
				updated, _ = ed.Snapshot().Node(id)
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("Updated %s", StyleValue.Render(updated.Title))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "new title")
	cmd.Flags().StringVar(&opts.description, "description", "", "new description")

	return cmd
}
