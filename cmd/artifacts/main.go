// Command artifacts converts the notebook's JSON parameter export into the
// four Parquet artifacts loaded by the server, then verifies them.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"hdp-service/internal/logger"
	"hdp-service/internal/pipeline"
)

func main() {
	in := flag.String("in", "artifacts/heart.json", "JSON parameter export")
	out := flag.String("out", "artifacts", "output directory for the Parquet files")
	flag.Parse()

	log, err := logger.NewLogger("info", "console", "hdp-artifacts")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	f, err := os.Open(*in)
	if err != nil {
		log.Fatal("Failed to open export", zap.String("path", *in), zap.Error(err))
	}
	set, err := pipeline.DecodeArtifactSet(f)
	f.Close()
	if err != nil {
		log.Fatal("Failed to read export", zap.Error(err))
	}

	// Refuse to write a set the server would reject.
	if _, err := pipeline.BuildBundle(set, ""); err != nil {
		log.Fatal("Export is inconsistent", zap.Error(err))
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatal("Failed to create output directory", zap.Error(err))
	}
	paths := pipeline.PathsFromDir(*out)
	if err := pipeline.WriteArtifacts(paths, set); err != nil {
		log.Fatal("Failed to write artifacts", zap.Error(err))
	}

	bundle, err := pipeline.LoadArtifactBundle(paths)
	if err != nil {
		log.Fatal("Written artifacts do not load", zap.Error(err))
	}
	log.Info("Artifacts written",
		zap.String("dir", *out),
		zap.String("fingerprint", bundle.Fingerprint()),
		zap.Strings("features", bundle.FeatureColumns()),
	)
}
