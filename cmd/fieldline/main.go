package main

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/config"
	"github.com/fieldline/fieldline/internal/migration"
	"github.com/fieldline/fieldline/internal/observability"
	"github.com/fieldline/fieldline/internal/server"
	"github.com/fieldline/fieldline/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		migration.Module,
		server.Module,
	)

	app.Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	nodeID := int64(1)
	if raw := os.Getenv("SNOWFLAKE_NODE_ID"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		nodeID = parsed
	}
	return snowflake.NewNode(nodeID)
}
