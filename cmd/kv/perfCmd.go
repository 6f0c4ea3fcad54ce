package kv

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for a flatkv document file",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix = "__test"
	perfKeySpread = 100
	perfSkip      = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", "Benchmarks to skip (comma separated - e.g. set,get)")
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, "How many different keys to use for the tests")
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfKeySpread = viper.GetInt("keys")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func shouldSkip(name string) bool {
	for _, s := range perfSkip {
		if strings.TrimSpace(s) == name {
			return true
		}
	}
	return false
}

func perfKey(i int) string {
	return fmt.Sprintf("%s:%d", perfKeyPrefix, i%perfKeySpread)
}

// benchmarkOp runs op under testing.Benchmark while feeding a latency
// timer, and prints throughput plus latency percentiles.
func benchmarkOp(name string, op func(i int) error) error {
	if shouldSkip(name) {
		fmt.Printf("%-10s skipped\n", name)
		return nil
	}

	timer := gometrics.NewTimer()

	var opErr error
	result := testing.Benchmark(func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			start := time.Now()
			if err := op(i); err != nil {
				opErr = err
				b.FailNow()
			}
			timer.UpdateSince(start)
		}
	})
	if opErr != nil {
		return fmt.Errorf("%s benchmark failed: %w", name, opErr)
	}

	snapshot := timer.Snapshot()
	fmt.Printf("%-10s %10d ops %12.0f ops/s   p50 %8s   p95 %8s   p99 %8s\n",
		name,
		result.N,
		snapshot.RateMean(),
		time.Duration(snapshot.Percentile(0.50)).Round(time.Microsecond),
		time.Duration(snapshot.Percentile(0.95)).Round(time.Microsecond),
		time.Duration(snapshot.Percentile(0.99)).Round(time.Microsecond),
	)
	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for a flatkv document file")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("File: %s\n", viper.GetString("file"))
	fmt.Printf("Codec: %s\n", viper.GetString("codec"))
	fmt.Printf("Keys: %d\n", perfKeySpread)
	fmt.Println()

	fmt.Println("starting tests...")

	if err := benchmarkOp("set", func(i int) error {
		return docStore.Set(perfKey(i), map[string]any{"seq": i, "payload": rand.Int63()})
	}); err != nil {
		return err
	}

	if err := benchmarkOp("get", func(i int) error {
		_, _, err := docStore.Get(perfKey(i))
		return err
	}); err != nil {
		return err
	}

	if err := benchmarkOp("update", func(i int) error {
		return docStore.Update(perfKey(i), map[string]any{"touched": true})
	}); err != nil {
		return err
	}

	if err := benchmarkOp("incr", func(i int) error {
		_, err := docStore.Increment(perfKey(i), "hits", 1)
		return err
	}); err != nil {
		return err
	}

	if err := benchmarkOp("del", func(i int) error {
		return docStore.Delete(perfKey(i))
	}); err != nil {
		return err
	}

	// remove leftover benchmark keys
	keys, err := docStore.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if strings.HasPrefix(k, perfKeyPrefix) {
			if err := docStore.Delete(k); err != nil {
				return err
			}
		}
	}

	fmt.Println("done")
	return nil
}
