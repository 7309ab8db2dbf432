package batch

// Stage is a step of the run state machine. Stages only move forward;
// any stage may jump to StageClosed when the run fails.
type Stage int

const (
	StageInit Stage = iota
	StageBatchOpen
	StageLoadingCustomers
	StageLoadingProducts
	StageLoadingCoupons
	StageLoadingOrders
	StageClosed
)

var stageNames = [...]string{
	StageInit:             "INIT",
	StageBatchOpen:        "BATCH_OPEN",
	StageLoadingCustomers: "LOADING_CUSTOMERS",
	StageLoadingProducts:  "LOADING_PRODUCTS",
	StageLoadingCoupons:   "LOADING_COUPONS",
	StageLoadingOrders:    "LOADING_ORDERS",
	StageClosed:           "CLOSED",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "UNKNOWN"
	}
	return stageNames[s]
}

// Next returns the stage that follows s on the success path.
// StageClosed has no successor and returns itself.
func (s Stage) Next() Stage {
	if s >= StageClosed {
		return StageClosed
	}
	return s + 1
}
