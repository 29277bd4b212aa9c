package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"compliance-portal/internal/config"
	"compliance-portal/internal/db"
	"compliance-portal/internal/document"
	"compliance-portal/internal/store"
	"compliance-portal/internal/utils"
	"compliance-portal/redis"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// backend is what the maintenance commands run against.
type backend struct {
	db    *gorm.DB
	cache *redis.Cache
	close func()
}

// collections returns a store whose replacements also drop the server's
// cached document list pages.
func (b *backend) collections() *store.CollectionStore {
	return store.NewCollectionStore(b.db, document.InvalidateListCache(b.cache))
}

// openBackend loads configuration, connects and migrates.
type openBackend func(ctx context.Context) (*backend, error)

func connect(ctx context.Context) (*backend, error) {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.InitLogger(cfg.LogLevel)

	database, err := db.ConnectDb()
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(database); err != nil {
		db.CloseDb()
		return nil, err
	}

	b := &backend{db: database, cache: redis.NewCache(nil), close: db.CloseDb}
	client, err := redis.InitRedis(cfg.RedisAddress, cfg.RedisPassword)
	if err != nil {
		logger.Warn("redis unavailable, cached document lists expire on their own", "error", err)
		return b, nil
	}
	b.cache = redis.NewCache(client)
	b.close = func() {
		_ = client.Close()
		db.CloseDb()
	}
	return b, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Maintenance commands for the compliance portal database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newSeedCmd(connect),
		newExportCmd(connect),
		newImportCmd(connect),
		newGetCmd(connect),
		newPutCmd(connect),
	)
	return root
}

func newSeedCmd(open openBackend) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample data set into empty collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := open(ctx)
			if err != nil {
				return err
			}
			defer b.close()

			if err := db.SeedData(ctx, b.db, document.InvalidateListCache(b.cache)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
			return nil
		},
	}
}

func newExportCmd(open openBackend) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every collection as one JSON snapshot",
		Long: `Write every collection as a JSON object keyed by collection name
(users, notifications, calendarEvents, documents, chatMessages, filingGuides).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := open(ctx)
			if err != nil {
				return err
			}
			defer b.close()

			snap, err := b.collections().Export(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return writeSnapshot(w, snap)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func newImportCmd(open openBackend) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace collections with the contents of a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readSnapshot(args[0])
			if err != nil {
				return err
			}
			if key != "" && !store.Key(key).Valid() {
				return fmt.Errorf("unknown collection %q", key)
			}

			ctx := cmd.Context()
			b, err := open(ctx)
			if err != nil {
				return err
			}
			defer b.close()

			collections := b.collections()
			if key != "" {
				err = collections.ImportKey(ctx, store.Key(key), snap)
			} else {
				err = collections.Import(ctx, snap)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", describe(snap, key))
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "replace only this collection")
	return cmd
}

func newGetCmd(open openBackend) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one collection as a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := collectionKey(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			b, err := open(ctx)
			if err != nil {
				return err
			}
			defer b.close()

			raw, err := b.collections().Load(ctx, key)
			if err != nil {
				return err
			}
			var out bytes.Buffer
			if err := json.Indent(&out, raw, "", "  "); err != nil {
				return err
			}
			out.WriteByte('\n')
			_, err = out.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}

func newPutCmd(open openBackend) *cobra.Command {
	return &cobra.Command{
		Use:   "put <key> <file>",
		Short: "Replace one collection with the JSON array in file",
		Long: `Replace one collection with the JSON array in file, - for stdin.
The array may also be wrapped in a JSON string, as browsers store it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := collectionKey(args[0])
			if err != nil {
				return err
			}
			raw, err := readInput(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			b, err := open(ctx)
			if err != nil {
				return err
			}
			defer b.close()

			if err := b.collections().Save(ctx, key, raw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", key)
			return nil
		},
	}
}

func collectionKey(name string) (store.Key, error) {
	key := store.Key(name)
	if !key.Valid() {
		return "", fmt.Errorf("unknown collection %q", name)
	}
	return key, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func readSnapshot(path string) (*store.Snapshot, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	return store.ParseSnapshot(data)
}

func writeSnapshot(w io.Writer, snap *store.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func describe(snap *store.Snapshot, key string) string {
	counts := map[store.Key]int{
		store.KeyUsers:          len(snap.Users),
		store.KeyNotifications:  len(snap.Notifications),
		store.KeyCalendarEvents: len(snap.CalendarEvents),
		store.KeyDocuments:      len(snap.Documents),
		store.KeyChatMessages:   len(snap.ChatMessages),
		store.KeyFilingGuides:   len(snap.FilingGuides),
	}
	if key != "" {
		return fmt.Sprintf("%d %s", counts[store.Key(key)], key)
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return fmt.Sprintf("%d records across %d collections", total, len(store.Collections))
}
