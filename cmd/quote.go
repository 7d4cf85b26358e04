package cmd

import (
	"errors"
	"fmt"

	internalApp "github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/viewmodel"

	"github.com/spf13/cobra"
)

func init() {
	var configPath string

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Fetch a quote from the quote service. // 获取一条名言。",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(a *internalApp.App) error {
				if err := a.Controller.Dispatch(viewmodel.FireQuote{}); err != nil {
					return err
				}
				a.Controller.Wait()
				n, ok := pendingEvent(a.Controller)
				if !ok || n.Kind != viewmodel.NotificationQuoteReceived {
					return errors.New("no quote received, see the log for details")
				}
				fmt.Fprintln(cmd.OutOrStdout(), n.Message)
				return nil
			})
		},
	}
	quoteCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file")
	rootCmd.AddCommand(quoteCmd)
}
