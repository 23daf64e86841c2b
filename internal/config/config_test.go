package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTP.Addr == "" {
		t.Fatal("default http addr missing")
	}
	if cfg.Process.LookupFlow == "" {
		t.Fatal("default lookup flow missing")
	}
	if cfg.Process.SignalTTL <= 0 {
		t.Fatalf("default signal ttl = %s", cfg.Process.SignalTTL)
	}
	if cfg.Correlation.TTL <= 0 {
		t.Fatalf("default correlation ttl = %s", cfg.Correlation.TTL)
	}
}

func TestFlowID(t *testing.T) {
	p := ProcessConfig{LookupFlow: "party-lookup-{tenant}"}
	if got := p.FlowID("tn01"); got != "party-lookup-tn01" {
		t.Fatalf("flow id = %q", got)
	}

	p = ProcessConfig{LookupFlow: "shared-lookup"}
	if got := p.FlowID("tn01"); got != "shared-lookup" {
		t.Fatalf("template without placeholder must pass through, got %q", got)
	}
}

func TestTenantLookup(t *testing.T) {
	cfg := Config{Tenants: []TenantConfig{
		{Domain: "tenanta.example.com", TenantID: "tn-a", FspID: "FSPA"},
		{Domain: "tenantb.example.com", TenantID: "tn-b", FspID: "FSPB"},
	}}

	tenant, err := cfg.TenantByDomain("tenantb.example.com")
	if err != nil || tenant.TenantID != "tn-b" {
		t.Fatalf("by domain: %+v, %v", tenant, err)
	}
	if _, err := cfg.TenantByDomain("nobody.example.com"); err == nil {
		t.Fatal("unknown domain must fail")
	}

	tenant, err = cfg.TenantByID("tn-a")
	if err != nil || tenant.FspID != "FSPA" {
		t.Fatalf("by id: %+v, %v", tenant, err)
	}
	if _, err := cfg.TenantByID("tn-z"); err == nil {
		t.Fatal("unknown tenant id must fail")
	}
}
