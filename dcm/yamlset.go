// Domain Context Manager
// https://github.com/usbarmory/tamago-dcm
//
// Copyright (c) The TamaGo Authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dcm

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlRegion mirrors PMPRegion in the declarative domain-set format.
type yamlRegion struct {
	Base  uint64 `yaml:"base"`
	Size  uint64 `yaml:"size"`
	Read  bool   `yaml:"read"`
	Write bool   `yaml:"write"`
	Exec  bool   `yaml:"exec"`
	Lock  bool   `yaml:"lock"`
}

// yamlDomain mirrors Domain in the declarative domain-set format. Hart sets
// are given as lists of indices rather than raw bitmasks so manifests stay
// readable.
type yamlDomain struct {
	Name           string       `yaml:"name"`
	Root           bool         `yaml:"root"`
	PossibleHarts  []int        `yaml:"possible_harts"`
	AssignedHarts  []int        `yaml:"assigned_harts"`
	BootHartID     int          `yaml:"boot_hartid"`
	NextAddr       uint64       `yaml:"next_addr"`
	NextMode       string       `yaml:"next_mode"`
	NextArg1       uint64       `yaml:"next_arg1"`
	ContextMgmt    bool         `yaml:"context_mgmt_enabled"`
	PMPRegions     []yamlRegion `yaml:"pmp_regions"`
}

type yamlDomainSet struct {
	Domains []yamlDomain `yaml:"domains"`
}

func parsePrivilegeMode(s string) (PrivilegeMode, error) {
	switch s {
	case "", "U", "user":
		return PrivilegeUser, nil
	case "S", "supervisor":
		return PrivilegeSupervisor, nil
	default:
		return 0, fmt.Errorf("dcm: unknown next_mode %q", s)
	}
}

func hartmaskFrom(harts []int) (Hartmask, error) {
	var m Hartmask
	for _, h := range harts {
		if h < 0 || h >= MaxHarts {
			return 0, fmt.Errorf("dcm: hart index %d out of range", h)
		}
		m.Set(h)
	}
	return m, nil
}

// LoadDomainSet parses a declarative domain-set manifest and returns the
// concrete Domain values it describes, along with the domain marked
// root: true. This is a test/simulation convenience standing in for the
// device-tree parsing spec.md places out of scope; it is not a
// replacement for one.
//
// Example manifest:
//
//	domains:
//	  - name: root
//	    root: true
//	    possible_harts: [0, 1]
//	    assigned_harts: [0, 1]
//	    boot_hartid: 0
//	  - name: secure
//	    possible_harts: [0]
//	    assigned_harts: [0]
//	    boot_hartid: 0
//	    next_addr: 0x80200000
//	    next_mode: S
//	    context_mgmt_enabled: true
//	    pmp_regions:
//	      - base: 0x80200000
//	        size: 0x100000
//	        read: true
//	        exec: true
func LoadDomainSet(r io.Reader) (domains []*Domain, root *Domain, err error) {
	var set yamlDomainSet

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&set); err != nil {
		return nil, nil, fmt.Errorf("dcm: parsing domain set: %w", err)
	}

	if len(set.Domains) == 0 {
		return nil, nil, fmt.Errorf("dcm: domain set has no domains")
	}

	for _, yd := range set.Domains {
		possible, err := hartmaskFrom(yd.PossibleHarts)
		if err != nil {
			return nil, nil, fmt.Errorf("dcm: domain %q: %w", yd.Name, err)
		}

		assigned, err := hartmaskFrom(yd.AssignedHarts)
		if err != nil {
			return nil, nil, fmt.Errorf("dcm: domain %q: %w", yd.Name, err)
		}

		mode, err := parsePrivilegeMode(yd.NextMode)
		if err != nil {
			return nil, nil, fmt.Errorf("dcm: domain %q: %w", yd.Name, err)
		}

		regions := make([]PMPRegion, 0, len(yd.PMPRegions))
		for _, yr := range yd.PMPRegions {
			regions = append(regions, PMPRegion{
				Base:  yr.Base,
				Size:  yr.Size,
				Read:  yr.Read,
				Write: yr.Write,
				Exec:  yr.Exec,
				Lock:  yr.Lock,
			})
		}

		d := &Domain{
			Name:               yd.Name,
			PossibleHarts:      possible,
			AssignedHarts:      assigned,
			BootHartID:         yd.BootHartID,
			NextAddr:           yd.NextAddr,
			NextMode:           mode,
			NextArg1:           yd.NextArg1,
			PMPRegions:         regions,
			ContextMgmtEnabled: yd.ContextMgmt,
		}

		domains = append(domains, d)

		if yd.Root {
			if root != nil {
				return nil, nil, fmt.Errorf("dcm: domain set has more than one root domain")
			}
			root = d
		}
	}

	if root == nil {
		return nil, nil, fmt.Errorf("dcm: domain set has no domain marked root")
	}

	return domains, root, nil
}
