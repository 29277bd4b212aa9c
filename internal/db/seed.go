package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/store"

	"gorm.io/gorm"
)

const demoPassword = "demo123"

// SeedData inserts the sample records into every collection that is still empty.
// Collections that already hold rows are left untouched. hooks run for every
// collection seeded.
func SeedData(ctx context.Context, db *gorm.DB, hooks ...store.ReplaceHook) error {
	collections := store.NewCollectionStore(db, hooks...)
	snap := SampleSnapshot()

	for _, key := range store.Collections {
		empty, err := collections.IsEmpty(ctx, key)
		if err != nil {
			return fmt.Errorf("seed %s: %w", key, err)
		}
		if !empty {
			slog.Debug("collection already populated, skipping seed", "collection", key)
			continue
		}
		if err := collections.ImportKey(ctx, key, snap); err != nil {
			return fmt.Errorf("seed %s: %w", key, err)
		}
		slog.Info("seeded collection", "collection", key)
	}

	var n int64
	if err := db.WithContext(ctx).Model(&domain.RegulatoryUpdate{}).Limit(1).Count(&n).Error; err != nil {
		return fmt.Errorf("seed regulatory updates: %w", err)
	}
	if n == 0 {
		if err := db.WithContext(ctx).Create(SampleRegulatoryUpdates()).Error; err != nil {
			return fmt.Errorf("seed regulatory updates: %w", err)
		}
		slog.Info("seeded collection", "collection", "regulatoryUpdates")
	}
	return nil
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string { return &s }

// SampleSnapshot is the demo data set: one SME, one CA and a little history between them.
func SampleSnapshot() *store.Snapshot {
	return &store.Snapshot{
		Users: []store.UserRecord{
			{User: domain.User{
				ID: "1", Email: "sme@demo.com", Password: demoPassword, Role: domain.RoleSME,
				Name: "John Smith", Company: strPtr("Tech Solutions Ltd."), CreatedAt: ts("2024-01-15T10:00:00Z"),
			}},
			{User: domain.User{
				ID: "2", Email: "ca@demo.com", Password: demoPassword, Role: domain.RoleCA,
				Name: "Sarah Johnson", Company: strPtr("Johnson & Associates"), CreatedAt: ts("2024-01-10T09:00:00Z"),
			}},
		},
		Notifications: []domain.Notification{
			{
				ID: "1", Title: "GST Return Due", Message: "Your GST return for December 2024 is due on January 20th",
				Type: domain.NotificationWarning, CreatedAt: ts("2024-12-28T14:30:00Z"), UserID: "1", Version: 1,
			},
			{
				ID: "2", Title: "Document Uploaded", Message: "Your CA has uploaded the annual financial statement",
				Type: domain.NotificationInfo, CreatedAt: ts("2024-12-27T11:15:00Z"), UserID: "1", Version: 1,
			},
			{
				ID: "3", Title: "Client Payment Received", Message: "John Smith has completed the payment for consultation",
				Type: domain.NotificationSuccess, CreatedAt: ts("2024-12-26T16:45:00Z"), UserID: "2", Version: 1,
			},
		},
		CalendarEvents: []domain.CalendarEvent{
			{
				ID: "1", Title: "GST Return Filing", Date: "2025-01-20", Type: domain.EventFiling,
				Priority: domain.PriorityHigh, Description: "Submit monthly GST return for December 2024",
			},
			{
				ID: "2", Title: "TDS Payment", Date: "2025-01-07", Type: domain.EventPayment,
				Priority: domain.PriorityHigh, Description: "Pay TDS for December 2024",
			},
			{
				ID: "3", Title: "Client Meeting", Date: "2025-01-15", Type: domain.EventMeeting,
				Priority: domain.PriorityMedium, Description: "Quarterly review with Tech Solutions Ltd.",
			},
		},
		Documents: []domain.Document{
			{
				ID: "1", Name: "Annual Financial Statement 2024.pdf", Type: "application/pdf", Size: "2.4 MB",
				UploadedAt: ts("2024-12-15T10:30:00Z"), UploadedBy: "2", Content: "sample-financial-statement-content", Version: 1,
			},
			{
				ID: "2", Name: "GST Return November.xlsx",
				Type: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Size: "156 KB",
				UploadedAt: ts("2024-12-10T14:20:00Z"), UploadedBy: "1", Content: "sample-gst-return-content", Version: 1,
			},
		},
		ChatMessages: []domain.ChatMessage{
			{
				ID: "1", SenderID: "1", ReceiverID: "2", IsRead: true, Timestamp: ts("2024-12-28T10:30:00Z"),
				Message: "Hi Sarah, I need help with the GST filing for this month.",
			},
			{
				ID: "2", SenderID: "2", ReceiverID: "1", IsRead: true, Timestamp: ts("2024-12-28T10:35:00Z"),
				Message: "Hello John! I can help you with that. Have you collected all the necessary invoices?",
			},
			{
				ID: "3", SenderID: "1", ReceiverID: "2", IsRead: false, Timestamp: ts("2024-12-28T10:40:00Z"),
				Message: "Yes, I have uploaded them to the document vault. Please check.",
			},
		},
		FilingGuides: sampleGuides(),
	}
}

func steps(pairs ...string) []domain.GuideStep {
	out := make([]domain.GuideStep, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.GuideStep{
			StepID:  fmt.Sprint(i/2 + 1),
			Title:   pairs[i],
			Content: pairs[i+1],
		})
	}
	return out
}

func sampleGuides() []domain.FilingGuide {
	return []domain.FilingGuide{
		{
			ID: "1", Title: "GST Return Filing Guide", Version: 1,
			Description: "Step-by-step guide to file your monthly GST return",
			Steps: steps(
				"Gather Required Documents", "Collect all sales invoices, purchase invoices, and payment receipts for the month. Ensure all documents are properly categorized and amounts are accurate.",
				"Login to GST Portal", "Access the official GST portal at https://www.gst.gov.in/ using your GSTIN and password. Navigate to the Returns section.",
				"Fill GSTR-1", "Enter all outward supply details in GSTR-1 form. Include B2B, B2C, exports, and other applicable transactions.",
				"Review and Submit", "Review all entered data for accuracy. Submit the return before the due date and download the acknowledgment.",
			),
		},
		{
			ID: "2", Title: "Income Tax Return Filing", Version: 1,
			Description: "Complete guide for filing your annual income tax return",
			Steps: steps(
				"Collect Documents", "Gather Form 16, bank statements, investment proofs, and other relevant documents for the financial year.",
				"Choose ITR Form", "Select the appropriate ITR form based on your income sources and eligibility criteria.",
				"Fill Personal Details", "Enter your personal information, address, bank details, and other required information accurately.",
				"Report Income", "Report income from all sources including salary, house property, capital gains, and other sources.",
				"Calculate Tax", "Calculate total tax liability, claim deductions, and determine the final tax payable or refundable.",
				"Verify and Submit", "Verify the return using OTP or DSC, submit it, and download the acknowledgment receipt.",
			),
		},
		{
			ID: "3", Title: "TDS Return Filing", Version: 1,
			Description: "Guide for filing quarterly TDS returns",
			Steps: steps(
				"Prepare TDS Statements", "Compile all TDS deductions for the quarter and ensure all required details are available.",
				"Download FVU", "Download the File Validation Utility (FVU) from the Income Tax website for the relevant quarter.",
				"Prepare TDS File", "Create the TDS return file using the FVU with all deductee and payment details.",
				"Upload and Submit", "Upload the validated file to the IT portal and submit the return before the due date.",
			),
		},
	}
}

// SampleRegulatoryUpdates is the initial regulatory feed.
func SampleRegulatoryUpdates() []domain.RegulatoryUpdate {
	return []domain.RegulatoryUpdate{
		{
			ID: "1", Title: "GST Rate Changes for Construction Services", Date: "2024-12-28", Category: "GST",
			Importance: domain.PriorityHigh, Source: "GST Council", Link: "#",
			Summary: "The GST Council has announced revised rates for construction services effective from January 1, 2025. The new rates will impact residential and commercial construction projects.",
		},
		{
			ID: "2", Title: "Extended Due Date for Income Tax Returns", Date: "2024-12-27", Category: "Income Tax",
			Importance: domain.PriorityMedium, Source: "CBDT", Link: "#",
			Summary: "The Central Board of Direct Taxes (CBDT) has extended the due date for filing income tax returns for AY 2024-25 to January 31, 2025.",
		},
		{
			ID: "3", Title: "New ROC Filing Requirements", Date: "2024-12-26", Category: "Corporate Law",
			Importance: domain.PriorityHigh, Source: "MCA", Link: "#",
			Summary: "The Ministry of Corporate Affairs (MCA) has introduced new mandatory disclosures for companies in their annual filings with ROC.",
		},
		{
			ID: "4", Title: "TDS Rate Revision for Professional Services", Date: "2024-12-25", Category: "TDS",
			Importance: domain.PriorityMedium, Source: "Income Tax Department", Link: "#",
			Summary: "TDS rates for payments to professionals have been revised. New rates are applicable from January 1, 2025.",
		},
		{
			ID: "5", Title: "Updated Labour Law Compliance Requirements", Date: "2024-12-24", Category: "Labour Law",
			Importance: domain.PriorityMedium, Source: "Ministry of Labour", Link: "#",
			Summary: "New compliance requirements under the Labour Codes have been notified. Employers need to ensure adherence to updated provisions.",
		},
		{
			ID: "6", Title: "FEMA Notification on Foreign Investment", Date: "2024-12-23", Category: "FEMA",
			Importance: domain.PriorityLow, Source: "RBI", Link: "#",
			Summary: "Reserve Bank of India has issued new FEMA notification regarding foreign direct investment in certain sectors.",
		},
	}
}
