package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	devenv "ccapi/dev/env"
	"ccapi/lib/stockstore"
)

func writeTemplate(path string, value any) error {
	_, err := os.Stat(path)
	if err == nil {
		slog.Info("keeping existing file", "path", path)
		return nil
	}
	contents, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0600)
}

func create(recreate bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	if recreate {
		err = os.RemoveAll("dev/.state")
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	err = os.MkdirAll("dev/.state", 0777)
	if err != nil {
		return err
	}

	err = writeTemplate(filepath.Join("dev", ".state", "ccapi_config.json"), devenv.CCAPITestConfig{
		BaseUrl: "https://seller.cloudcommercepro.com",
		BrandID: 341,
	})
	if err != nil {
		return err
	}

	store, err := stockstore.Open(filepath.Join("dev", ".state", "stock.db"))
	if err != nil {
		return err
	}
	err = store.Close()
	if err != nil {
		return err
	}

	slog.Info("fill in the live test account", "path", "dev/.state/ccapi_config.json")
	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	flag.Parse()

	err := create(*recreate)
	if err != nil {
		slog.Error("failed to create dev environment", "err", err.Error())
		os.Exit(1)
	}

	slog.Info("dev environment created successfully!")
}
