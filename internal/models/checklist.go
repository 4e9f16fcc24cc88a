package models

import "time"

// ListingTarget describes the property a due-diligence checklist is built for.
type ListingTarget struct {
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address" yaml:"address"`
	Type    string `json:"type" yaml:"type"`
	Details string `json:"details" yaml:"details"`
	Broker  string `json:"broker" yaml:"broker"`
	Agent   string `json:"agent" yaml:"agent"`
}

type ConflictingData struct {
	ReportedAsking  string `json:"reported_asking"`
	MarketIndicator string `json:"market_indicator"`
	Hypothesis      string `json:"hypothesis"`
}

type ListingVerification struct {
	Price           *float64        `json:"price"`
	Status          string          `json:"status"`
	URL             *string         `json:"url"`
	DateUpdated     time.Time       `json:"date_updated"`
	ConflictingData ConflictingData `json:"conflicting_data"`
	SearchDomains   []string        `json:"search_domains"`
}

type CompSearchCriteria struct {
	Zip           string   `json:"zip"`
	Neighborhoods []string `json:"neighborhoods"`
	Type          string   `json:"type"`
	PriceRange    string   `json:"price_range"`
	Timeframe     string   `json:"timeframe"`
}

type BrokerHistory struct {
	Agent            string   `json:"agent"`
	Firm             string   `json:"firm"`
	PreviousListings []string `json:"previous_listings"`
}

type ChecklistFindings struct {
	Task1 struct {
		ListingVerification ListingVerification `json:"listing_verification"`
	} `json:"task_1"`
	Task2 struct {
		CompsTable     []Property         `json:"comps_table"`
		SearchCriteria CompSearchCriteria `json:"search_criteria"`
	} `json:"task_2"`
	Task3 struct {
		BrokerHistory BrokerHistory `json:"broker_history"`
	} `json:"task_3"`
}

// DueDiligenceReport is the checklist written by the scout command.
type DueDiligenceReport struct {
	ReportMetadata struct {
		GeneratedAt    time.Time     `json:"generated_at"`
		TargetProperty ListingTarget `json:"target_property"`
	} `json:"report_metadata"`
	Findings        ChecklistFindings `json:"findings"`
	Recommendations struct {
		NextSteps []string `json:"next_steps"`
	} `json:"recommendations"`
}
