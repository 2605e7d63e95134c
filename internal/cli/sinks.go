package cli

import (
	"context"
	"os"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
	"github.com/matzehuels/skillflow/pkg/sink"
)

// openSink builds the sink described by cfg. outDir overrides the output
// directory of a dir sink. The returned close function must always be called.
func openSink(ctx context.Context, cfg Config, outDir string) (sink.Sink, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Sink.Kind {
	case sinkDir, "":
		dir := cfg.Output.Dir
		if outDir != "" {
			dir = outDir
		}
		s, err := sink.NewDirSink(dir)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil

	case sinkStdout:
		return sink.NewWriterSink(os.Stdout), noop, nil

	case sinkRedis:
		s := sink.NewRedisSink(cfg.Sink.RedisAddr, cfg.Sink.RedisPassword, cfg.Sink.RedisDB,
			sink.WithRedisPrefix(cfg.Sink.RedisPrefix),
			sink.WithRedisTTL(cfg.Sink.RedisTTL.Duration),
		)
		return s, s.Close, nil

	case sinkMongo:
		s, err := sink.NewMongoSink(ctx, cfg.Sink.MongoURI, cfg.Sink.MongoDatabase, cfg.Sink.MongoCollection)
		if err != nil {
			return nil, noop, err
		}
		return s, func() error { return s.Close(context.WithoutCancel(ctx)) }, nil
	}
	return nil, noop, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown sink kind %q", cfg.Sink.Kind)
}

// isRemoteSink reports whether deliveries go over the network.
func isRemoteSink(kind string) bool {
	return kind == sinkRedis || kind == sinkMongo
}
