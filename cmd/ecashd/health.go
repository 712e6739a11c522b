// health.go - Health monitoring for the e-cash daemon
package main

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"ecash/internal/blindsig"
	"ecash/internal/proof"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	Healthy   HealthStatus = "healthy"
	Degraded  HealthStatus = "degraded"
	Unhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents the health of a specific component
type ComponentHealth struct {
	Name      string        `json:"name"`
	Status    HealthStatus  `json:"status"`
	Message   string        `json:"message"`
	LastCheck time.Time     `json:"last_check"`
	Latency   time.Duration `json:"latency,omitempty"`
}

// SystemHealth represents the overall system health
type SystemHealth struct {
	OverallStatus HealthStatus      `json:"overall_status"`
	Timestamp     time.Time         `json:"timestamp"`
	Components    []ComponentHealth `json:"components"`
	Uptime        time.Duration     `json:"uptime"`
	Version       string            `json:"version"`
}

// HealthChecker tracks the bank key, the proof system and anything else the
// daemon registers.
type HealthChecker struct {
	mu         sync.Mutex
	components map[string]*ComponentHealth
	checkers   map[string]func() error
	startTime  time.Time
	version    string
}

func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		components: make(map[string]*ComponentHealth),
		checkers:   make(map[string]func() error),
		startTime:  time.Now(),
		version:    version,
	}
}

// RegisterComponent registers a component. A nil checker means the status is
// only changed through UpdateComponent.
func (hc *HealthChecker) RegisterComponent(name string, checker func() error) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.components[name] = &ComponentHealth{
		Name:      name,
		Status:    Healthy,
		Message:   "Component registered",
		LastCheck: time.Now(),
	}
	if checker != nil {
		hc.checkers[name] = checker
	}
}

// UpdateComponent updates the health status of a component
func (hc *HealthChecker) UpdateComponent(name string, status HealthStatus, message string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if component, exists := hc.components[name]; exists {
		component.Status = status
		component.Message = message
		component.LastCheck = time.Now()
	}
}

// CheckHealth runs every registered checker and reports the result.
func (hc *HealthChecker) CheckHealth() *SystemHealth {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	for name, component := range hc.components {
		checker, exists := hc.checkers[name]
		if !exists {
			continue
		}
		start := time.Now()
		err := checker()
		component.Latency = time.Since(start)
		component.LastCheck = time.Now()
		if err != nil {
			component.Status = Unhealthy
			component.Message = err.Error()
		} else {
			component.Status = Healthy
			component.Message = "OK"
		}
	}
	return hc.snapshot()
}

// GetHealth reports the last known status without running checkers.
func (hc *HealthChecker) GetHealth() *SystemHealth {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return hc.snapshot()
}

func (hc *HealthChecker) snapshot() *SystemHealth {
	overallStatus := Healthy
	components := make([]ComponentHealth, 0, len(hc.components))

	for _, component := range hc.components {
		if component.Status == Unhealthy {
			overallStatus = Unhealthy
		} else if component.Status == Degraded && overallStatus == Healthy {
			overallStatus = Degraded
		}
		components = append(components, *component)
	}
	sort.Slice(components, func(i, j int) bool { return components[i].Name < components[j].Name })

	return &SystemHealth{
		OverallStatus: overallStatus,
		Timestamp:     time.Now(),
		Components:    components,
		Uptime:        time.Since(hc.startTime),
		Version:       hc.version,
	}
}

// HealthCheckResponse is the summary written to the log at shutdown.
type HealthCheckResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// CreateHealthResponse creates a standardized health check response
func CreateHealthResponse(health *SystemHealth) *HealthCheckResponse {
	status := "success"
	message := "System is healthy"

	if health.OverallStatus == Unhealthy {
		status = "error"
		message = "System is unhealthy"
	} else if health.OverallStatus == Degraded {
		status = "warning"
		message = "System is degraded"
	}

	return &HealthCheckResponse{
		Status:  status,
		Message: message,
		Data:    health,
	}
}

// bankKeyCheck blind-signs a fixed probe and verifies the unblinded result.
func bankKeyCheck(key *blindsig.PrivateKey) func() error {
	probe := []byte("ecash health probe")
	return func() error {
		pub := key.Public()
		blinded, st, err := blindsig.Blind(pub, probe)
		if err != nil {
			return fmt.Errorf("blind probe: %w", err)
		}
		blindSig, err := blindsig.Sign(key, blinded)
		if err != nil {
			return fmt.Errorf("sign probe: %w", err)
		}
		sig, err := blindsig.Unblind(pub, blindSig, st)
		if err != nil {
			return fmt.Errorf("unblind probe: %w", err)
		}
		if !blindsig.Verify(pub, probe, sig) {
			return fmt.Errorf("probe signature does not verify")
		}
		return nil
	}
}

// proofSystemCheck reports whether the proof system has keys for the
// configured number of slots.
func proofSystemCheck(sys *proof.System, slots int) func() error {
	return func() error {
		if sys == nil {
			return fmt.Errorf("proof system not initialised")
		}
		if sys.Slots() != slots {
			return fmt.Errorf("proof system compiled for %d slots, want %d", sys.Slots(), slots)
		}
		return nil
	}
}
