package ui

// quietPresenter drains events and prints nothing; only failures reach the
// user, through the logger and the exit code.
type quietPresenter struct{}

func (p *quietPresenter) Run(events <-chan Event) error {
	for range events {
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
