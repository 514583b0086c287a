// Package cmd provides the command-line interface of lfusim.
package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sarchlab/lfusim/mem/cache"
	"github.com/sarchlab/lfusim/mem/trace"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lfusim",
	Short: "lfusim simulates a set-associative cache with LFU replacement.",
	Long: `lfusim simulates a set-associative, write-through cache that ` +
		`replaces the least frequently used line. It can run the built-in ` +
		`demonstration or replay a trace of byte reads and writes.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}

func init() {
	loadEnv()

	f := rootCmd.PersistentFlags()
	f.Uint8("set-bits", envUint8("LFUSIM_SET_BITS", 1),
		"Number of set index bits (2^s sets).")
	f.Uint8("tag-bits", envUint8("LFUSIM_TAG_BITS", 1),
		"Number of tag bits, used as the tag display width.")
	f.Uint8("block-bits", envUint8("LFUSIM_BLOCK_BITS", 1),
		"Number of block offset bits (2^b bytes per block).")
	f.Uint8("associativity", envUint8("LFUSIM_ASSOCIATIVITY", 2),
		"Number of lines per set.")
	f.Int("prefetch-width", envInt("LFUSIM_PREFETCH_WIDTH", 1),
		"Number of bytes fetched by a read miss (1 or 2).")
	f.BoolP("verbose", "v", false, "Print every access and eviction.")
}

// loadEnv reads a .env file in the working directory, if there is one.
func loadEnv() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env: %v", err)
	}
}

func envUint8(key string, def uint8) uint8 {
	s, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}

	return uint8(v)
}

func envInt(key string, def int) int {
	s, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}

	return v
}

// builderFromFlags returns a cache builder configured by the persistent
// flags.
func builderFromFlags(cmd *cobra.Command) cache.Builder {
	f := cmd.Flags()
	setBits, _ := f.GetUint8("set-bits")
	tagBits, _ := f.GetUint8("tag-bits")
	blockBits, _ := f.GetUint8("block-bits")
	assoc, _ := f.GetUint8("associativity")
	width, _ := f.GetInt("prefetch-width")

	b := cache.MakeBuilder().
		WithSetBits(setBits).
		WithTagBits(tagBits).
		WithBlockBits(blockBits).
		WithAssociativity(assoc).
		WithPrefetchWidth(width)

	if verbose, _ := f.GetBool("verbose"); verbose {
		b = b.WithHooks(trace.NewLogTracer(nil))
	}

	return b
}
