package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/josephgoksu/contactbook/internal/contacts"
	"github.com/josephgoksu/contactbook/internal/ui"
	"github.com/josephgoksu/contactbook/store"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func isJSON() bool {
	return viper.GetBool("json")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

// styled reports whether human output to w should carry colors.
func styled(w io.Writer) bool {
	return !isJSON() && ui.IsTerminal(w)
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// openBackend opens the persistence backend configured by --db, --format and
// --on-corrupt.
func openBackend() (store.Backend, error) {
	cfg := GetConfig()
	return store.Open(store.Options{
		Path:      cfg.DB,
		Format:    cfg.Format,
		OnCorrupt: store.CorruptPolicy(cfg.OnCorrupt),
		Logger:    appLogger,
	})
}

// openBook loads the configured contact book. The returned func releases the
// backend and must always be called.
func openBook(ctx context.Context) (*contacts.Book, func(), error) {
	backend, err := openBackend()
	if err != nil {
		return nil, func() {}, err
	}
	closeBackend := func() {
		if err := backend.Close(); err != nil {
			appLogger.Warn("close contacts store", zap.Error(err))
		}
	}

	book, err := contacts.Open(ctx, backend, appLogger)
	if err != nil {
		closeBackend()
		return nil, func() {}, err
	}
	appLogger.Debug("contact book opened",
		zap.String("location", book.Location()),
		zap.Int("contacts", book.Len()),
		zap.Int("next_id", book.NextID()),
	)
	return book, closeBackend, nil
}
