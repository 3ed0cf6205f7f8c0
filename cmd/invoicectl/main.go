package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var serverURL string

var (
	boldGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan  = color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow    = color.New(color.FgYellow).SprintFunc()
	red       = color.New(color.FgRed).SprintFunc()
)

func main() {
	root := &cobra.Command{
		Use:   "invoicectl",
		Short: "CLI client for the Invoice Assistant API",
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3001", "Invoice Assistant server URL")

	root.AddCommand(uploadCmd(), askCmd(), listCmd(), showCmd(), deleteCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		os.Exit(1)
	}
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Minute}
}

func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <image>...",
		Short: "Upload invoice scans for ingestion (up to 4 per call)",
		Args:  cobra.RangeArgs(1, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				fw, err := mw.CreateFormFile("invoices", filepath.Base(path))
				if err != nil {
					f.Close()
					return err
				}
				if _, err := io.Copy(fw, f); err != nil {
					f.Close()
					return err
				}
				f.Close()
			}
			if err := mw.Close(); err != nil {
				return err
			}

			req, err := http.NewRequest(http.MethodPost, serverURL+"/api/upload", &buf)
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", mw.FormDataContentType())

			var result struct {
				ProcessedCount int `json:"processedCount"`
				Invoices       []struct {
					ID         string `json:"id"`
					Filename   string `json:"filename"`
					TextLength int    `json:"textLength"`
					Fields     struct {
						InvoiceNumber string `json:"invoiceNumber"`
						Amount        string `json:"amount"`
						Date          string `json:"date"`
						Store         string `json:"store"`
					} `json:"fields"`
				} `json:"invoices"`
			}
			if err := doJSON(req, &result); err != nil {
				return err
			}

			fmt.Printf("%s %d of %d file(s) processed\n", boldGreen("✔"), result.ProcessedCount, len(args))
			for _, inv := range result.Invoices {
				fmt.Printf("  %s  %s (invoice %s, total %s, %d chars)\n",
					boldCyan(inv.ID), inv.Filename,
					orDash(inv.Fields.InvoiceNumber), orDash(inv.Fields.Amount), inv.TextLength)
			}
			if result.ProcessedCount < len(args) {
				fmt.Println(yellow("  some files were skipped (unreadable or near-empty scans)"))
			}
			return nil
		},
	}
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about your uploaded invoices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, _ := json.Marshal(map[string]string{"message": args[0]})
			req, err := http.NewRequest(http.MethodPost, serverURL+"/api/chat", bytes.NewReader(payload))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")

			var result struct {
				Response         string   `json:"response"`
				Confidence       float64  `json:"confidence"`
				RelevantInvoices []string `json:"relevantInvoices"`
			}
			if err := doJSON(req, &result); err != nil {
				return err
			}

			fmt.Printf("%s %s\n", boldGreen("Assistant:"), result.Response)
			if len(result.RelevantInvoices) > 0 {
				fmt.Printf("%s confidence %.2f, matched %s\n", yellow("·"), result.Confidence, boldCyan(result.RelevantInvoices[0]))
			}
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all ingested invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := http.NewRequest(http.MethodGet, serverURL+"/api/invoices", nil)
			if err != nil {
				return err
			}

			var result struct {
				Count    int `json:"count"`
				Invoices []struct {
					ID       string `json:"id"`
					Filename string `json:"filename"`
					Fields   struct {
						InvoiceNumber string `json:"invoiceNumber"`
						Amount        string `json:"amount"`
						Date          string `json:"date"`
						Store         string `json:"store"`
					} `json:"fields"`
				} `json:"invoices"`
			}
			if err := doJSON(req, &result); err != nil {
				return err
			}

			fmt.Printf("%s %d invoice(s)\n", boldGreen("✔"), result.Count)
			for _, inv := range result.Invoices {
				fmt.Printf("  %s  %s  %s  %s  %s\n",
					boldCyan(inv.ID), inv.Filename,
					orDash(inv.Fields.InvoiceNumber), orDash(inv.Fields.Date), orDash(inv.Fields.Amount))
			}
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one invoice including its OCR text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := http.NewRequest(http.MethodGet, serverURL+"/api/invoices/"+args[0], nil)
			if err != nil {
				return err
			}

			var result struct {
				Invoice struct {
					ID       string          `json:"id"`
					Filename string          `json:"filename"`
					Text     string          `json:"text"`
					Fields   json.RawMessage `json:"fields"`
				} `json:"invoice"`
			}
			if err := doJSON(req, &result); err != nil {
				return err
			}

			fmt.Printf("%s %s (%s)\n", boldGreen("Invoice"), boldCyan(result.Invoice.ID), result.Invoice.Filename)
			fmt.Printf("%s %s\n", yellow("fields:"), string(result.Invoice.Fields))
			fmt.Println(yellow("text:"))
			fmt.Println(result.Invoice.Text)
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an invoice and its stored scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := http.NewRequest(http.MethodDelete, serverURL+"/api/invoices/"+args[0], nil)
			if err != nil {
				return err
			}

			var result struct {
				Message string `json:"message"`
			}
			if err := doJSON(req, &result); err != nil {
				return err
			}
			fmt.Printf("%s %s\n", boldGreen("✔"), result.Message)
			return nil
		},
	}
}

// doJSON executes the request and decodes the JSON response, converting
// non-2xx statuses into errors with the server's message.
func doJSON(req *http.Request, out interface{}) error {
	resp, err := httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server: %s (%d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	return json.Unmarshal(body, out)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
