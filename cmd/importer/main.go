package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"campuseats/internal/config"
	"campuseats/internal/db"
	"campuseats/internal/importer"
	"campuseats/internal/repository/product"
	"campuseats/internal/repository/store"
)

func main() {
	var (
		filePath string
		storeID  string
	)
	flag.StringVar(&filePath, "file", "", "Path to vendor menu CSV")
	flag.StringVar(&storeID, "store", "", "Store id to import into")
	flag.Parse()

	if filePath == "" || storeID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	storeRepo := store.NewPostgres(pool, nil)
	st, err := storeRepo.GetByID(ctx, storeID)
	if err != nil {
		log.Fatalf("lookup store %q: %v", storeID, err)
	}

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, product.NewPostgres(pool, nil), st.ID)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d products into %s in %s\n", count, st.Name, time.Since(start).Truncate(time.Millisecond))
}
