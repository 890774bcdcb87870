/*
validate.go - Advisory assignment validation

PURPOSE:
  Checks a proposed schedule assignment for date-range overlaps with the
  employee's existing assignments and for coherence with the employment
  contract's active window, BEFORE it takes effect.

DESIGN:
  Conflicts are returned as structured data, never as an error: callers
  surface all problems at once instead of failing on the first. This check
  is advisory; the authoritative overlap guarantee is the uniqueness
  constraint the persistence layer enforces on its write path.

SEE ALSO:
  - store/sqlite: The authoritative constraint
*/
package schedule

import "fmt"

// =============================================================================
// CONFLICTS
// =============================================================================

type ConflictKind string

const (
	// ConflictOverlap means the candidate's range overlaps an existing
	// assignment for the same employee.
	ConflictOverlap ConflictKind = "OVERLAP"

	// ConflictContractBounds means the candidate's range falls outside the
	// employment contract's active window.
	ConflictContractBounds ConflictKind = "CONTRACT_BOUNDS"
)

// Conflict describes one problem with a candidate assignment.
type Conflict struct {
	Kind    ConflictKind
	Message string

	// ConflictingID is the existing assignment involved, for OVERLAP kinds.
	ConflictingID AssignmentID
}

// ValidationResult reports every conflict found. Valid is true only when the
// conflict list is empty.
type ValidationResult struct {
	Valid     bool
	Conflicts []Conflict
}

// ValidationContext is what the candidate is checked against.
type ValidationContext struct {
	// Existing holds the employee's current assignments. The candidate's own
	// ID is skipped, so updates don't conflict with themselves.
	Existing []Assignment

	// Contract is the employment contract's active window. Nil disables the
	// contract-bounds check.
	Contract *DateRange
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidateAssignment checks the candidate against existing assignments and
// the contract window. It never returns an error; all problems come back as
// conflicts.
func ValidateAssignment(candidate Assignment, vctx ValidationContext) ValidationResult {
	var conflicts []Conflict

	for _, existing := range vctx.Existing {
		if existing.ID == candidate.ID {
			continue
		}
		if existing.EmployeeID != candidate.EmployeeID {
			continue
		}
		if candidate.Range.Overlaps(existing.Range) {
			conflicts = append(conflicts, Conflict{
				Kind: ConflictOverlap,
				Message: fmt.Sprintf("range %s overlaps assignment %s (%s)",
					candidate.Range, existing.ID, existing.Range),
				ConflictingID: existing.ID,
			})
		}
	}

	if vctx.Contract != nil {
		if c := checkContractBounds(candidate.Range, *vctx.Contract); c != nil {
			conflicts = append(conflicts, *c)
		}
	}

	return ValidationResult{Valid: len(conflicts) == 0, Conflicts: conflicts}
}

// checkContractBounds verifies the candidate range is contained in the
// contract window. An open-ended candidate inside a bounded contract is a
// violation: the assignment would outlive the contract.
func checkContractBounds(candidate, contract DateRange) *Conflict {
	if candidate.Start.Before(contract.Start) {
		return &Conflict{
			Kind:    ConflictContractBounds,
			Message: fmt.Sprintf("assignment starts %s, before contract start %s", candidate.Start, contract.Start),
		}
	}
	if contract.End != nil {
		if candidate.End == nil {
			return &Conflict{
				Kind:    ConflictContractBounds,
				Message: fmt.Sprintf("open-ended assignment outlives contract ending %s", *contract.End),
			}
		}
		if candidate.End.After(*contract.End) {
			return &Conflict{
				Kind:    ConflictContractBounds,
				Message: fmt.Sprintf("assignment ends %s, after contract end %s", *candidate.End, *contract.End),
			}
		}
	}
	return nil
}
