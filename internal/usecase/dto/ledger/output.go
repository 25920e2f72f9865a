package ledgerdto

// ReconcileOutput counts what one reconciliation pass did.
type ReconcileOutput struct {
	Checked   int
	Confirmed int
	Failed    int
	Pending   int
}
