package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Yusuke-1986/project-arcana/pkg/compiler/driver"
)

const version = "0.4.0"

var (
	vestigium   bool
	perscribere bool
	hostBinary  string
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&vestigium, "vestigium", false, "print pipeline trace")
	rootCmd.PersistentFlags().StringVar(&hostBinary, "host", driver.DefaultHost, "host interpreter binary")

	exsecutioCmd.Flags().BoolVar(&perscribere, "perscribere", false, "print transpiled host text, do not execute")

	rootCmd.AddCommand(exsecutioCmd)
	rootCmd.AddCommand(inspectioCmd)
	rootCmd.AddCommand(aedificatioCmd)
}

var rootCmd = &cobra.Command{
	Use:     "arcana",
	Short:   "Arcana is a transpiling toolchain for .arkhe sources",
	Long:    `Arcana compiles .arkhe sources to a dynamic host language and runs them there.`,
	Version: version,
}

func newDriver() *driver.Driver {
	d := driver.New()
	d.Host = hostBinary
	if vestigium {
		d.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return d
}

func banner() {
	fmt.Printf("arcana: python transpiler ver v.%s\n\n", version)
}

// contraindication prints a diagnostic to the error stream and exits
// non-zero.
func contraindication(err error) {
	fmt.Fprintln(os.Stderr, "[arcana] contraindication:", err)
	os.Exit(1)
}

var exsecutioCmd = &cobra.Command{
	Use:   "exsecutio [file]",
	Short: "Compile an .arkhe source and run it via the host",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		banner()
		d := newDriver()
		art, err := d.CompileFile(args[0])
		if err != nil {
			contraindication(err)
		}

		if perscribere {
			fmt.Println("=== [arcana perscribere] transpiled python ===")
			fmt.Print(art.Source)
			fmt.Println("=== [arcana perscribere] end ===")
			return
		}

		fmt.Println("=== [arcana: oraculum] ===")
		if err := d.Run(context.Background(), art); err != nil {
			contraindication(err)
		}
	},
}

var inspectioCmd = &cobra.Command{
	Use:   "inspectio [file]",
	Short: "Validate an .arkhe source without emitting or running",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		banner()
		d := newDriver()
		if _, err := d.CompileFile(args[0]); err != nil {
			contraindication(err)
		}
		fmt.Println("inspectio perfecta")
	},
}

var aedificatioCmd = &cobra.Command{
	Use:   "aedificatio [file]",
	Short: "Build a project (reserved)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		banner()
		fmt.Println("aedificatio nondum parata est.")
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "[arcana] contraindication:", err)
		os.Exit(1)
	}
}
