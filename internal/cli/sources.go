package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/radiant/pkg/content"
	"github.com/matzehuels/radiant/pkg/source"
)

// =============================================================================
// Content Sources
// =============================================================================

// contentFlags select where node content comes from. At most one source
// may be set.
type contentFlags struct {
	dir         string
	url         string
	redisAddr   string
	redisPrefix string
}

func (f *contentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dir, "content-dir", "", "directory of {id}.html content files")
	cmd.Flags().StringVar(&f.url, "content-url", "", "base URL serving {id} content as JSON")
	cmd.Flags().StringVar(&f.redisAddr, "redis", "", "Redis address holding content hashes")
	cmd.Flags().StringVar(&f.redisPrefix, "redis-prefix", content.DefaultRedisPrefix, "key prefix of content hashes")
}

// open returns the configured content source and a cleanup function. It
// returns a nil source when no flag is set.
func (f contentFlags) open(ctx context.Context) (content.Source, func(), error) {
	set := 0
	for _, v := range []string{f.dir, f.url, f.redisAddr} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return nil, nil, fmt.Errorf("--content-dir, --content-url and --redis are mutually exclusive")
	}

	noop := func() {}
	switch {
	case f.dir != "":
		return content.FSSource{FS: os.DirFS(f.dir)}, noop, nil
	case f.url != "":
		src, err := content.NewHTTPSource(f.url)
		if err != nil {
			return nil, nil, err
		}
		return src, noop, nil
	case f.redisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: f.redisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", f.redisAddr, err)
		}
		return content.NewRedisSource(client, f.redisPrefix), func() { _ = client.Close() }, nil
	}
	return nil, noop, nil
}

// =============================================================================
// Data Sources
// =============================================================================

// dataFlags select where hierarchies come from.
type dataFlags struct {
	file      string
	dir       string
	url       string
	mongoURI  string
	mongoDB   string
	mongoColl string
}

func (f *dataFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "hierarchy document (JSON or TOML)")
	cmd.Flags().StringVar(&f.dir, "data-dir", "", "directory of {category}.json or {category}.toml documents")
	cmd.Flags().StringVar(&f.url, "data-url", "", "base URL serving {category} documents")
	cmd.Flags().StringVar(&f.mongoURI, "mongo-uri", "", "MongoDB connection URI")
	cmd.Flags().StringVar(&f.mongoDB, "mongo-db", "radiant", "MongoDB database")
	cmd.Flags().StringVar(&f.mongoColl, "mongo-collection", "hierarchies", "MongoDB collection")
}

// open returns the configured data source and a cleanup function.
func (f dataFlags) open(ctx context.Context) (source.DataSource, func(), error) {
	noop := func() {}
	switch {
	case f.file != "":
		return source.Path(f.file), noop, nil
	case f.dir != "":
		return source.FileSource{Dir: f.dir}, noop, nil
	case f.url != "":
		src, err := source.NewHTTPSource(f.url)
		if err != nil {
			return nil, nil, err
		}
		return src, noop, nil
	case f.mongoURI != "":
		src, disconnect, err := source.ConnectMongo(ctx, f.mongoURI, f.mongoDB, f.mongoColl)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { _ = disconnect(context.Background()) }, nil
	}
	return nil, nil, fmt.Errorf("no data source: set one of --file, --data-dir, --data-url or --mongo-uri")
}
