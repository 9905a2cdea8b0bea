/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/josephgoksu/contactbook/internal/contacts"
	"github.com/josephgoksu/contactbook/internal/ui"
	"github.com/josephgoksu/contactbook/internal/watch"
	"github.com/josephgoksu/contactbook/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchDelay is the debounce window between a change and the re-render.
var watchDelay = watch.DefaultDelay

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the contact list and reprint it whenever the file changes",
	Long: `Print the contact list, then print it again every time the contacts file
changes on disk, until interrupted with Ctrl+C. Requires --db.`,
	Example: `  contactbook --db contacts.json watch --sort-by id`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if GetConfig().DB == "" {
			return &UsageError{Cmd: cmd.CommandPath(), Err: errors.New("watch requires --db")}
		}
		key, reverse := sortFlags(cmd)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), key, reverse)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("sort-by", string(contacts.SortByName), "sort key: name or id")
	watchCmd.Flags().Bool("reverse", false, "reverse the sort order")
}

// runWatch renders the listing once and again after every change until ctx
// is done.
func runWatch(ctx context.Context, out, errOut io.Writer, key contacts.SortKey, reverse bool) error {
	render := func() error {
		book, closeBook, err := openBook(ctx)
		if err != nil {
			return err
		}
		defer closeBook()
		return renderWatch(out, book, key, reverse)
	}

	if err := render(); err != nil {
		return err
	}

	w, err := watch.New(watch.Config{
		Path:  GetConfig().DB,
		Delay: watchDelay,
		OnChange: func() {
			if err := render(); err != nil {
				appLogger.Warn("reload contacts", zap.Error(err))
				reportError(errOut, err)
			}
		},
		Logger: appLogger,
	})
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	<-ctx.Done()
	appLogger.Debug("watch stopped", zap.Error(ctx.Err()))
	return nil
}

func renderWatch(w io.Writer, book *contacts.Book, key contacts.SortKey, reverse bool) error {
	list := book.List(key, reverse)
	if isJSON() {
		return printJSON(w, types.NewContactListResponse(list))
	}
	if styled(w) {
		fmt.Fprintln(w, ui.RenderPanel(book.Location(), ui.RenderContacts(list, true)))
		return nil
	}
	fmt.Fprintln(w, ui.RenderContacts(list, false))
	fmt.Fprintln(w)
	return nil
}
