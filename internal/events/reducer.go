package events

// ViewRow is the minimal row shape an operational-queue view keeps: the
// entity id and the pipeline status its filter matches on.
type ViewRow struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ApplyChange reconciles a view's local list against one change event.
// viewStatus is the pipeline status the view filters on: rows whose status
// moves away from it are removed, matching rows are updated in place, and a
// row transitioning into the filter is appended. Removal events always drop
// the row. The input slice is not mutated.
func ApplyChange(list []ViewRow, change Change, viewStatus string) []ViewRow {
	out := make([]ViewRow, 0, len(list)+1)
	found := false

	for _, row := range list {
		if row.ID != change.EntityID {
			out = append(out, row)
			continue
		}
		found = true
		switch change.Kind {
		case ChangeRemoved:
			// drop
		case ChangeStatusUpdated:
			if change.Status == viewStatus {
				row.Status = change.Status
				out = append(out, row)
			}
			// status moved out of this view's filter: drop
		default:
			out = append(out, row)
		}
	}

	if !found && change.Kind != ChangeRemoved && change.Status == viewStatus {
		out = append(out, ViewRow{ID: change.EntityID, Status: change.Status})
	}

	return out
}
