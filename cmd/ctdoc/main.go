package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"ctdoc/internal/config"
	"ctdoc/internal/connectors"
	gmailconnector "ctdoc/internal/connectors/gmail"
	imapconnector "ctdoc/internal/connectors/imap"
	"ctdoc/internal/embedding"
	"ctdoc/internal/listener"
	"ctdoc/internal/pipeline"
	"ctdoc/internal/searchidx"
	"ctdoc/internal/server"
	"ctdoc/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "register":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		path := fs.String("path", "", "xlsx file or directory")
		source := fs.String("source", "local", "file source tag")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*path) == "" {
			must(fmt.Errorf("--path is required"))
		}
		processor, err := pipeline.NewProcessingService(db, cfg)
		must(err)
		info, err := os.Stat(*path)
		must(err)
		if info.IsDir() {
			count, err := processor.RegisterDirectory(*path, *source)
			must(err)
			fmt.Printf("registered %d files from %s\n", count, *path)
			return
		}
		file, err := processor.RegisterFile(*path, *source)
		must(err)
		fmt.Printf("registered file id=%d name=%s\n", file.ID, file.FileName)
	case "extract":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])
		processor, err := pipeline.NewProcessingService(db, cfg)
		must(err)
		processed, failed, err := processor.ProcessPending(*batch)
		must(err)
		fmt.Printf("extract done processed=%d failed=%d\n", processed, failed)
	case "index:create":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		recreate := fs.Bool("recreate", false, "drop the index first")
		_ = fs.Parse(os.Args[2:])
		client := searchidx.NewClient(cfg)
		ctx := context.Background()
		if *recreate {
			must(client.DeleteIndex(ctx))
		}
		must(client.CreateIndex(ctx, cfg.EmbedDimensions))
		fmt.Printf("index ready: %s\n", client.Index())
	case "index:upload":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		batch := fs.Int("batch", 50, "batch size")
		_ = fs.Parse(os.Args[2:])
		processor, err := pipeline.NewProcessingService(db, cfg)
		must(err)
		uploader := searchidx.NewUploader(searchidx.NewClient(cfg), embedding.New(cfg))
		indexed, failed, err := processor.IndexExtracted(context.Background(), uploader, *batch)
		must(err)
		fmt.Printf("index upload done indexed=%d failed=%d\n", indexed, failed)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		documentID := fs.String("documentId", "", "document id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*documentID) == "" || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--documentId and --out are required"))
		}
		row, err := db.GetDocument(*documentID)
		must(err)
		if row == nil {
			must(fmt.Errorf("document not found: %s", *documentID))
		}
		must(pipeline.ExportDocumentXLSX(row.Doc, *out))
		fmt.Printf("exported %s to %s\n", *documentID, *out)
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "imap", "gmail|imap")
		label := fs.String("label", "INBOX", "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(os.Args[2:])
		ctx := context.Background()
		conn, err := makeConnector(ctx, cfg, *provider)
		must(err)
		intake := connectors.NewIntakeService(db, cfg.ExcelDir, conn)
		result, err := intake.FetchAndStore(ctx, *label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d\n", *provider, result.Fetched, result.Stored)
	case "mail:listen":
		s := listener.NewService(db, cfg)
		must(s.Run(context.Background()))
	case "serve":
		srv := server.New(db, searchidx.NewClient(cfg), cfg)
		fmt.Printf("listening on %s\n", cfg.HTTPAddr)
		must(srv.ListenAndServe())
	default:
		usage()
		os.Exit(1)
	}
}

func makeConnector(ctx context.Context, cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(ctx, cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func usage() {
	fmt.Println("usage: ctdoc <command>")
	fmt.Println("commands:")
	fmt.Println("  register --path=./certs [--source=local]")
	fmt.Println("  extract [--batch=20]")
	fmt.Println("  index:create [--recreate]")
	fmt.Println("  index:upload [--batch=50]")
	fmt.Println("  export:xlsx --documentId=DOC... --out=./out/doc.xlsx")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=50")
	fmt.Println("  mail:listen")
	fmt.Println("  serve")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
