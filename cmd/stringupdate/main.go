// stringupdate pushes a generated CX file to NDEx. With -networkid it replaces
// the content of an existing network; without it a new network is created.
// -deletename removes every owned network with that exact name first, which
// keeps repeated test loads from piling up.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-stringload/pkg/config"
	"github.com/dd0wney/cluso-stringload/pkg/logging"
	"github.com/dd0wney/cluso-stringload/pkg/ndex"
)

func main() {
	var (
		confPath    = flag.String("conf", "stringload.yaml", "configuration file")
		profileName = flag.String("profile", "string_human", "configuration profile to load")
		cxPath      = flag.String("cx", "", "CX file to upload (required)")
		networkID   = flag.String("networkid", "", "UUID of the network to update; omit to create a new one")
		deleteName  = flag.String("deletename", "", "delete owned networks with this exact name before uploading")
		verbose     = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	logger := logging.NewDefaultLogger()
	if *verbose {
		logger.SetLevel(logging.DebugLevel)
	}

	if *cxPath == "" {
		fmt.Fprintln(os.Stderr, "stringupdate: -cx is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(logger, *confPath, *profileName, *cxPath, *networkID, *deleteName); err != nil {
		fmt.Fprintln(os.Stderr, "update failed:", err)
		os.Exit(2)
	}
}

func run(logger logging.Logger, confPath, profileName, cxPath, networkID, deleteName string) error {
	profile, err := config.Load(confPath, profileName)
	if err != nil {
		return err
	}

	client := ndex.NewClient(profile.Server, ndex.Credentials{
		Username: profile.User,
		Password: profile.Password,
		Token:    profile.Token,
	}, logger)

	ctx := context.Background()

	if deleteName != "" {
		n, err := client.DeleteNetworksByName(ctx, deleteName)
		if err != nil {
			return err
		}
		logger.Info("existing networks deleted",
			logging.Network(deleteName), logging.Count(n))
	}

	f, err := os.Open(cxPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", cxPath, err)
	}
	defer f.Close()

	if networkID != "" {
		id, err := uuid.Parse(networkID)
		if err != nil {
			return fmt.Errorf("parse network id %q: %w", networkID, err)
		}
		if err := client.UpdateNetwork(ctx, id, f); err != nil {
			return err
		}
		fmt.Println("updated network", id)
		return nil
	}

	id, err := client.CreateNetwork(ctx, f)
	if err != nil {
		return err
	}
	fmt.Println("created network", id)
	return nil
}
