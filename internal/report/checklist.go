package report

import (
	"fmt"
	"time"

	"propertyscout/internal/models"
)

// DefaultTarget is the listing the checklist is built for when none is configured.
func DefaultTarget() models.ListingTarget {
	return models.ListingTarget{
		Name:    "South Clinton Village",
		Address: "898 South Clinton Ave, Rochester, NY 14620",
		Type:    "Mixed-Use",
		Details: "11,000 SF Office/Flex + 11 Residential Units",
		Broker:  "Benchmark Realty Advisors",
		Agent:   "Mark Chiarenza",
	}
}

// SearchDomains are the listing sites to check for the current asking price.
var SearchDomains = []string{
	"loopnet.com",
	"crexi.com",
	"benchmarkra.com",
	"rochester.craigslist.org",
	"fnet.com",
}

func defaultSearchCriteria() models.CompSearchCriteria {
	return models.CompSearchCriteria{
		Zip:           "14620",
		Neighborhoods: []string{"South Wedge", "Swillburg", "Highland Park"},
		Type:          "Mixed-Use OR Multi-family (5+ units)",
		PriceRange:    "$1.5M - $5.0M",
		Timeframe:     "Last 18 months",
	}
}

// GenerateChecklist builds the due-diligence checklist for target. comps
// fills the comparables table and may be empty.
func GenerateChecklist(target models.ListingTarget, comps []models.Property, now time.Time) models.DueDiligenceReport {
	var r models.DueDiligenceReport
	r.ReportMetadata.GeneratedAt = now
	r.ReportMetadata.TargetProperty = target

	r.Findings.Task1.ListingVerification = models.ListingVerification{
		Status:      "UNKNOWN",
		DateUpdated: now,
		ConflictingData: models.ConflictingData{
			ReportedAsking:  "$7.19M",
			MarketIndicator: "$3.0M",
			Hypothesis:      "7.19M may be Pro Forma/Stabilized value",
		},
		SearchDomains: append([]string(nil), SearchDomains...),
	}

	r.Findings.Task2.CompsTable = append([]models.Property{}, comps...)
	r.Findings.Task2.SearchCriteria = defaultSearchCriteria()

	r.Findings.Task3.BrokerHistory = models.BrokerHistory{
		Agent:            target.Agent,
		Firm:             target.Broker,
		PreviousListings: []string{},
	}

	r.Recommendations.NextSteps = []string{
		fmt.Sprintf("Contact %s for listing details", target.Agent),
		"Pull Monroe County property records",
		"Request rent roll and operating statements",
		"Verify $7.19M vs $3.0M discrepancy",
		"Site visit for physical assessment",
	}
	return r
}

// ChecklistName is the file name for a checklist generated at now.
func ChecklistName(now time.Time) string {
	return fmt.Sprintf("rochester_report_%s.json", now.Format(timestampLayout))
}

// WriteChecklist writes r under dir and returns the file path.
func WriteChecklist(dir string, r models.DueDiligenceReport) (string, error) {
	return writeJSON(dir, ChecklistName(r.ReportMetadata.GeneratedAt), r)
}
