package matching

import "sailsmart/models"

// Decide turns an evaluation into the status a new registration should take and whether
// that status was reached automatically.
//
// With auto-approval off nothing moves. A failed required item always leaves the
// registration for the owner. Otherwise a score at or above the threshold approves, and a
// score under the journey's auto-deny floor (when set) denies.
func Decide(j *models.Journey, r Result) (models.RegistrationStatus, bool) {
	if !j.AutoApprovalEnabled {
		return models.StatusPendingApproval, false
	}
	if !r.PassesRequired {
		return models.StatusPendingApproval, false
	}
	if r.Score >= j.AutoApprovalThreshold {
		return models.StatusApproved, true
	}
	if j.AutoDenyBelow != nil && r.Score < *j.AutoDenyBelow {
		return models.StatusNotApproved, true
	}
	return models.StatusPendingApproval, false
}
