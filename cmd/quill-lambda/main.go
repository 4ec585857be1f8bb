package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/jacentio/quill/blog"
	"github.com/jacentio/quill/httpapi"
	"github.com/jacentio/quill/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Error("load aws config", "error", err)
		os.Exit(1)
	}

	prefix := os.Getenv("QUILL_TABLE_PREFIX")
	if prefix == "" {
		prefix = "quill_"
	}

	store := storage.NewDynamo(dynamodb.NewFromConfig(awsCfg), storage.Config{
		TablePrefix: prefix,
	})
	engine := blog.NewEngine(store, logger)
	handler := httpapi.NewLambdaHandler(httpapi.New(engine, logger))

	lambda.Start(handler.Handle)
}
