// ABOUTME: PolicyRecord represents a single approved policy in the corpus
// ABOUTME: Immutable snapshot data owned by the corpus cache, replaced wholesale on refresh
package models

import (
	"fmt"
	"strings"
)

// Policy status values as stored in the durable store. Only approved
// policies are visible to the query engine.
const (
	PolicyStatusPending  = "pending"
	PolicyStatusApproved = "approved"
	PolicyStatusRejected = "rejected"
)

// PolicyRecord is an immutable snapshot of one policy row.
type PolicyRecord struct {
	ID                 string `json:"id"`
	Country            string `json:"country"`
	PolicyArea         string `json:"policy_area"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	ImplementationYear int    `json:"implementation_year,omitempty"`
	Status             string `json:"status"`
}

// Validate checks the fields required for a record to be indexable.
func (p *PolicyRecord) Validate() error {
	if strings.TrimSpace(p.Country) == "" {
		return fmt.Errorf("policy %q: country is required", p.Name)
	}
	if strings.TrimSpace(p.PolicyArea) == "" {
		return fmt.Errorf("policy %q: policy area is required", p.Name)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("policy name is required")
	}
	return nil
}

// Summary returns a one-line rendering used in prompts and templated answers.
func (p *PolicyRecord) Summary() string {
	if p.ImplementationYear > 0 {
		return fmt.Sprintf("%s - %s (%s, %d): %s", p.Country, p.Name, p.PolicyArea, p.ImplementationYear, p.Description)
	}
	return fmt.Sprintf("%s - %s (%s): %s", p.Country, p.Name, p.PolicyArea, p.Description)
}
