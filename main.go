package main

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/ebill-csv/cmd/batch"
	"fjacquet/ebill-csv/cmd/categorize"
	"fjacquet/ebill-csv/cmd/convert"
	"fjacquet/ebill-csv/cmd/root"
	"fjacquet/ebill-csv/cmd/summarize"

	"github.com/joho/godotenv"
)

func init() {
	// .env must be loaded before viper reads the environment
	loadEnvSilently()

	root.Init()

	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(summarize.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
