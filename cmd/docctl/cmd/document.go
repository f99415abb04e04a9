package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"docportal/internal/dto"
	"docportal/internal/models"
	"docportal/internal/service"

	"github.com/spf13/cobra"
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Manage documents",
}

var docUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document for review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		title, _ := cmd.Flags().GetString("title")
		category, _ := cmd.Flags().GetString("category")
		description, _ := cmd.Flags().GetString("description")
		priority, _ := cmd.Flags().GetString("priority")
		rawDeadline, _ := cmd.Flags().GetString("deadline")
		uploader, _ := cmd.Flags().GetString("as")

		var deadline *time.Time
		if rawDeadline != "" {
			d, err := time.Parse("2006-01-02", rawDeadline)
			if err != nil {
				return fmt.Errorf("deadline must be YYYY-MM-DD: %w", err)
			}
			deadline = &d
		}

		name := filepath.Base(args[0])
		doc, err := portal.DocService.Create(cmd.Context(), service.CreateDocumentInput{
			Title:       title,
			Category:    category,
			Description: description,
			Priority:    priority,
			Deadline:    deadline,
			UploadedBy:  uploader,
			FileName:    name,
			FileType:    mime.TypeByExtension(filepath.Ext(name)),
			Data:        data,
		})
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(dto.NewDocumentResponse(doc, true))
		}
		fmt.Printf("Uploaded document %s (%s)\n", doc.Title, doc.ID)
		return nil
	},
}

var docPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List documents awaiting review",
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := portal.DocService.ListPending(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(dto.NewDocumentList(docs, true))
		}
		fmt.Println(renderDocumentTable(docs))
		return nil
	},
}

var docAssignedCmd = &cobra.Command{
	Use:   "assigned <user-id>",
	Short: "List approved documents assigned to a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := portal.DocService.ListApprovedFor(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(dto.NewDocumentList(docs, false))
		}
		fmt.Println(renderDocumentTable(docs))
		return nil
	},
}

var docShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show document details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		viewer, err := resolveViewer(cmd)
		if err != nil {
			return err
		}
		doc, err := portal.DocService.Get(cmd.Context(), viewer, args[0])
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(dto.NewDocumentResponse(doc, viewer.IsAdmin()))
		}
		fmt.Print(renderDocument(doc))
		return nil
	},
}

var docURLCmd = &cobra.Command{
	Use:   "url <id>",
	Short: "Print a short-lived link to the document file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		viewer, err := resolveViewer(cmd)
		if err != nil {
			return err
		}
		link, expiresAt, err := portal.DocService.FileURL(cmd.Context(), viewer, args[0])
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(dto.FileURLResponse{URL: link, ExpiresAt: expiresAt.UTC().Format(time.RFC3339)})
		}
		fmt.Println(link)
		return nil
	},
}

var docReviewCmd = &cobra.Command{
	Use:   "review <id>",
	Short: "Mark a document as under review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := portal.DocService.StartReview(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Document %s is %s\n", doc.ID, doc.Status)
		return nil
	},
}

var docApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a document and assign it to employees",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		employees, _ := cmd.Flags().GetStringSlice("employee")
		var notes *string
		if cmd.Flags().Changed("notes") {
			n, _ := cmd.Flags().GetString("notes")
			notes = &n
		}

		res, err := portal.DocService.Approve(cmd.Context(), args[0], employees, notes)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(dto.ApproveDocumentResponse{
				Document:       dto.NewDocumentResponse(res.Document, true),
				NewAssignments: dto.NewAssignmentList(res.NewAssignments),
			})
		}
		fmt.Printf("Approved %s, %d new assignment(s)\n", res.Document.ID, len(res.NewAssignments))
		return nil
	},
}

var docRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes, _ := cmd.Flags().GetString("notes")
		doc, err := portal.DocService.Reject(cmd.Context(), args[0], notes)
		if err != nil {
			return err
		}
		fmt.Printf("Rejected %s\n", doc.ID)
		return nil
	},
}

var docAssignmentsCmd = &cobra.Command{
	Use:   "assignments <id>",
	Short: "List the employees a document is assigned to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assignments, err := portal.DocService.ListAssignments(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(dto.NewAssignmentList(assignments))
		}
		fmt.Println(renderAssignmentTable(assignments))
		return nil
	},
}

var docEnrichCmd = &cobra.Command{
	Use:   "enrich <id>",
	Short: "Extract text and generate the summary now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portal.DocService.RetryEnrichment(cmd.Context(), args[0]); err != nil {
			return err
		}
		if err := portal.Enrichment.Process(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Enriched %s\n", args[0])
		return nil
	},
}

// resolveViewer reads as the --as user, or as an administrator when unset.
func resolveViewer(cmd *cobra.Command) (service.Viewer, error) {
	id, _ := cmd.Flags().GetString("as")
	if id == "" {
		return service.Viewer{Role: models.RoleAdmin}, nil
	}
	u, err := portal.Users.GetByID(cmd.Context(), id)
	if err != nil {
		return service.Viewer{}, err
	}
	return service.Viewer{UserID: u.ID, Role: u.Role}, nil
}

func init() {
	docUploadCmd.Flags().String("title", "", "document title")
	docUploadCmd.Flags().String("category", "", "document category")
	docUploadCmd.Flags().String("description", "", "optional description")
	docUploadCmd.Flags().String("priority", "medium", "low, medium or high")
	docUploadCmd.Flags().String("deadline", "", "deadline (YYYY-MM-DD)")
	docUploadCmd.Flags().String("as", "", "uploading admin's user id")
	docShowCmd.Flags().String("as", "", "read as this user id")
	docURLCmd.Flags().String("as", "", "read as this user id")
	docApproveCmd.Flags().StringSliceP("employee", "e", nil, "employee ids to assign (repeatable)")
	docApproveCmd.Flags().String("notes", "", "review notes")
	docRejectCmd.Flags().String("notes", "", "reason for rejection (required)")

	docCmd.AddCommand(docUploadCmd)
	docCmd.AddCommand(docPendingCmd)
	docCmd.AddCommand(docAssignedCmd)
	docCmd.AddCommand(docShowCmd)
	docCmd.AddCommand(docURLCmd)
	docCmd.AddCommand(docReviewCmd)
	docCmd.AddCommand(docApproveCmd)
	docCmd.AddCommand(docRejectCmd)
	docCmd.AddCommand(docAssignmentsCmd)
	docCmd.AddCommand(docEnrichCmd)
	rootCmd.AddCommand(docCmd)
}
