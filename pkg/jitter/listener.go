package jitter

// Listener observes buffer events.
type Listener interface {
	OnOffer(seq uint64, v Verdict)
	OnRelease(seq, cursor uint64)
	// OnLoss is called when a slot times out with nothing to release.
	OnLoss(cursor uint64)
	OnReset()
}

type NullListener struct {
}

func (n NullListener) OnOffer(seq uint64, v Verdict) {}

func (n NullListener) OnRelease(seq, cursor uint64) {}

func (n NullListener) OnLoss(cursor uint64) {}

func (n NullListener) OnReset() {}
