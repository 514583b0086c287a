package cmd

import (
	"io"
	"log"
	"os"

	"github.com/sarchlab/lfusim/mem"
	"github.com/sarchlab/lfusim/mem/cache"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the built-in demonstration.",
	Long: "`demo` reads addresses 0, 1, 2, 6 and 7 of the memory " +
		"[1 2 3 4 5 6 7 8] and prints the cache after the second read and " +
		"at the end.",
	Run: func(cmd *cobra.Command, _ []string) {
		engine, err := builderFromFlags(cmd).Build("Cache")
		if err != nil {
			log.Fatalf("Error building cache: %v", err)
		}

		err = runDemo(os.Stdout, engine)
		if err != nil {
			log.Fatalf("Error running demo: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(w io.Writer, engine *cache.Engine) error {
	memory := mem.Bytes{1, 2, 3, 4, 5, 6, 7, 8}

	read := func(addrs ...int64) error {
		for _, addr := range addrs {
			if _, err := engine.Read(memory, addr); err != nil {
				return err
			}
		}

		return nil
	}

	if err := read(0, 1); err != nil {
		return err
	}

	if err := cache.Dump(w, engine.Store()); err != nil {
		return err
	}

	if err := read(2, 6, 7); err != nil {
		return err
	}

	return cache.Dump(w, engine.Store())
}
