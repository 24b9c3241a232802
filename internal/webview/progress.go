package webview

import "sync"

// Progress bounds while a navigation is in flight.
const (
	progressStart = 0.1
	progressSpan  = 0.8
	progressDOM   = 0.5
)

// progressEstimator derives a load fraction from network activity. The value
// never decreases within one navigation.
type progressEstimator struct {
	mu       sync.Mutex
	started  int
	finished int
	floor    float64
	value    float64
}

// reset begins a new navigation.
func (p *progressEstimator) reset() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started, p.finished = 0, 0
	p.floor = progressStart
	p.value = progressStart
	return p.value
}

func (p *progressEstimator) requestStarted() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started++
	return p.update()
}

func (p *progressEstimator) requestDone() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.finished < p.started {
		p.finished++
	}
	return p.update()
}

func (p *progressEstimator) domContentLoaded() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.floor < progressDOM {
		p.floor = progressDOM
	}
	return p.update()
}

func (p *progressEstimator) loaded() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.floor = 1
	p.value = 1
	return p.value
}

func (p *progressEstimator) current() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// update recomputes value. Caller holds mu.
func (p *progressEstimator) update() float64 {
	if p.value >= 1 {
		return p.value
	}
	v := p.floor
	if p.started > 0 {
		if est := progressStart + progressSpan*float64(p.finished)/float64(p.started); est > v {
			v = est
		}
	}
	if v > p.value {
		p.value = v
	}
	return p.value
}
