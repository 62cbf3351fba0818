package infrastructure_test

import (
	"testing"

	"github.com/JaimeStill/dataserver/internal/config"
	"github.com/JaimeStill/dataserver/internal/dispatch"
	"github.com/JaimeStill/dataserver/internal/infrastructure"
	"github.com/JaimeStill/dataserver/pkg/database"
	"github.com/JaimeStill/dataserver/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func validConfig(sink string) *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "dataserver",
			User:            "dataserver",
			Password:        "dataserver",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "datalake",
			ConnectionString: azuriteConnString,
			KeyPrefix:        "blocks",
		},
		Dispatch: dispatch.Config{Sink: sink},
	}
}

func TestNewHTTPSink(t *testing.T) {
	infra, err := infrastructure.New(validConfig(dispatch.SinkHTTP))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil || infra.Logger == nil || infra.Database == nil {
		t.Fatal("core systems should be initialized")
	}
	if infra.Storage != nil {
		t.Error("storage should be nil for the http sink")
	}
	if infra.Database.Connection() == nil {
		t.Error("database connection is nil")
	}
}

func TestNewBlobSink(t *testing.T) {
	infra, err := infrastructure.New(validConfig(dispatch.SinkBlob))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Storage == nil {
		t.Error("storage should be initialized for the blob sink")
	}
}

func TestNotReadyBeforeStartup(t *testing.T) {
	infra, err := infrastructure.New(validConfig(dispatch.SinkHTTP))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Ready() {
		t.Error("infrastructure should not be ready before startup")
	}
}
