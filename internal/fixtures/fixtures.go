// Package fixtures holds the literal data set the dashboard renders. Nothing
// in it is loaded from an external source; the YAML is compiled into the binary.
package fixtures

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var rawPack []byte

var (
	loadOnce sync.Once
	loaded   *Pack
	loadErr  error
)

// Parse decodes a fixture pack from YAML.
func Parse(data []byte) (*Pack, error) {
	var p Pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding fixture pack: %w", err)
	}
	return &p, nil
}

// Load returns the embedded fixture pack. The pack is decoded once; callers
// get their own copy of every slice so local edits never leak between pages.
func Load() (*Pack, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(rawPack)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return loaded.clone(), nil
}

// MustLoad is Load for callers that cannot continue without fixtures.
func MustLoad() *Pack {
	p, err := Load()
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pack) clone() *Pack {
	c := *p
	c.Organizations = append([]Organization(nil), p.Organizations...)
	c.KPIs = append([]Metric(nil), p.KPIs...)
	c.Financials = append([]Metric(nil), p.Financials...)
	c.InventoryTurnover = append([]CategoryPoint(nil), p.InventoryTurnover...)
	c.Sales = append([]SalesPoint(nil), p.Sales...)
	c.Orders = append([]Order(nil), p.Orders...)
	c.OrderStatuses = append([]string(nil), p.OrderStatuses...)
	c.OrderProgress = append([]string(nil), p.OrderProgress...)
	c.TrackingSteps = append([]TrackingStep(nil), p.TrackingSteps...)
	c.Items = append([]Item(nil), p.Items...)
	c.LifecycleSteps = append([]LifecycleStep(nil), p.LifecycleSteps...)
	c.PendingOrders = append([]PendingOrder(nil), p.PendingOrders...)
	c.AppActivities = append([]AppActivity(nil), p.AppActivities...)
	c.SystemLogs = append([]SystemLog(nil), p.SystemLogs...)
	return &c
}

// OrganizationNames lists the organization names in display order.
func (p *Pack) OrganizationNames() []string {
	names := make([]string, len(p.Organizations))
	for i, o := range p.Organizations {
		names[i] = o.Name
	}
	return names
}
