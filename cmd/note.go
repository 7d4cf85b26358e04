package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	internalApp "github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/viewmodel"

	"github.com/spf13/cobra"
)

type noteFlags struct {
	config string
	image  string
}

func init() {
	flags := new(noteFlags)

	noteCmd := &cobra.Command{
		Use:   "note",
		Short: "Manage notes. // 管理笔记。",
	}
	noteCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "config file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags.config, func(a *internalApp.App) error {
				notes, err := a.NoteStore.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tUPDATED\tTEXT\tIMAGE")
				for _, n := range notes {
					image := ""
					if n.ImagePath != nil {
						image = *n.ImagePath
					}
					updated := ""
					if !n.UpdatedAt.IsZero() {
						updated = n.UpdatedAt.Format(time.DateTime)
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", *n.ID, updated, n.Text, image)
				}
				return w.Flush()
			})
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(flags.config, func(a *internalApp.App) error {
				if err := loadForEdit(a.Controller, id); err != nil {
					return err
				}
				s := a.Controller.State()
				fmt.Fprintf(cmd.OutOrStdout(), "id: %d\ntext: %s\n", id, s.Text)
				if s.ImagePath != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "image: %s\n", *s.ImagePath)
				}
				return nil
			})
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Create a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags.config, func(a *internalApp.App) error {
				if err := a.Controller.Dispatch(viewmodel.Load{}); err != nil {
					return err
				}
				return editAndSave(cmd, a, args[0], flags.image)
			})
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Replace the text of a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(flags.config, func(a *internalApp.App) error {
				if err := loadForEdit(a.Controller, id); err != nil {
					return err
				}
				return editAndSave(cmd, a, args[1], flags.image)
			})
		},
	}

	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVarP(&flags.image, "image", "i", "", "image file to attach")
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(flags.config, func(a *internalApp.App) error {
				return a.Controller.Dispatch(viewmodel.Delete{ID: &id})
			})
		},
	}

	noteCmd.AddCommand(listCmd, showCmd, addCmd, editCmd, deleteCmd)
	rootCmd.AddCommand(noteCmd)
}

func editAndSave(cmd *cobra.Command, a *internalApp.App, text, image string) error {
	c := a.Controller
	if err := c.Dispatch(viewmodel.SetText{Text: text}); err != nil {
		return err
	}
	if image != "" {
		path, err := a.ImageService.IngestFile(cmd.Context(), image)
		if err != nil {
			return err
		}
		if err := c.Dispatch(viewmodel.SetImagePath{Path: &path}); err != nil {
			return err
		}
	}
	if err := c.Dispatch(viewmodel.Save{}); err != nil {
		return err
	}
	if n, ok := pendingEvent(c); ok && n.Kind == viewmodel.NotificationSaveCompleted {
		fmt.Fprintln(cmd.OutOrStdout(), n.Message)
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", s)
	}
	return id, nil
}
