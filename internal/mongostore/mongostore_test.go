package mongostore

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/emilythestrangee/blog-api/backend/internal/store/storetest"
)

var testStore *Store

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	flag.Parse()
	if testing.Short() {
		return m.Run()
	}

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start mongo container: %v\n", err)
		return 1
	}
	defer func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to terminate mongo container: %v\n", err)
		}
	}()

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get connection string: %v\n", err)
		return 1
	}

	testStore, err = Connect(ctx, uri, "blog_test")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to test database: %v\n", err)
		return 1
	}
	defer testStore.Close()

	return m.Run()
}

func setupTestStore(t *testing.T) *Store {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	return testStore
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, setupTestStore(t))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID(newID()))
	assert.False(t, validID("not-an-id"))
	assert.False(t, validID(""))
}
