package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// JobIntake is the AI-drafted print job proposal built from a free-text
// order description. It names a customer instead of carrying an ID; the
// console resolves the name to an account before anything is created.
type JobIntake struct {
	CustomerName string  `json:"customer_name" jsonschema_description:"The customer's full name exactly as stated in the order description"`
	PageCount    int     `json:"page_count" jsonschema_description:"The total number of pages to print (positive integer)"`
	CostPerPage  string  `json:"cost_per_page" jsonschema_description:"The price charged per page as a decimal string (e.g. \"0.25\"). Use the shop's quoted price if the description states one."`
	Notes        string  `json:"notes" jsonschema_description:"Any remaining details from the description worth keeping with the job"`
	Confidence   float64 `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
}

// ClarificationRequest is returned by the AI when the order description
// is missing something essential.
type ClarificationRequest struct {
	Message string `json:"message" jsonschema_description:"A question asking for the missing detail (e.g. 'How many pages should be printed?')."`
}

// IntakeResponse wraps the AI output to branch between a usable
// JobIntake and a ClarificationRequest. Exactly one of the two is set.
type IntakeResponse struct {
	IsClarificationRequest bool                  `json:"is_clarification_request" jsonschema_description:"Set to true ONLY if you lack enough information to draft the job."`
	Clarification          *ClarificationRequest `json:"clarification,omitempty" jsonschema_description:"Required if is_clarification_request is true."`
	Intake                 *JobIntake            `json:"intake,omitempty" jsonschema_description:"Required if is_clarification_request is false."`
}

// Normalize cleans up common formatting issues in LLM output.
func (j *JobIntake) Normalize() {
	j.CustomerName = strings.TrimSpace(j.CustomerName)
	j.Notes = strings.TrimSpace(j.Notes)

	cost := strings.TrimSpace(j.CostPerPage)
	if cost == "" || strings.ToLower(cost) == "null" {
		cost = "0.00"
	}
	j.CostPerPage = strings.TrimPrefix(cost, "$")
}

// Validate checks the drafted job before it is offered for confirmation.
func (j *JobIntake) Validate() error {
	if j.CustomerName == "" {
		return errors.New("intake must name a customer")
	}
	if j.PageCount <= 0 {
		return fmt.Errorf("page count must be positive, got %d", j.PageCount)
	}

	cost, err := decimal.NewFromString(j.CostPerPage)
	if err != nil {
		return fmt.Errorf("invalid cost per page %q: %v", j.CostPerPage, err)
	}
	if cost.IsNegative() {
		return fmt.Errorf("cost per page cannot be negative, got %s", j.CostPerPage)
	}
	return nil
}

// Cost returns the parsed per-page price. Call Validate first.
func (j *JobIntake) Cost() decimal.Decimal {
	cost, _ := decimal.NewFromString(j.CostPerPage)
	return cost
}
