package parser

import (
	"sort"
	"strings"

	"github.com/davidroman0O/racadm/errors"
)

const (
	// inventoryNoise marks the `ComponentType = ...` lines racadm prints between records
	inventoryNoise = "ComponentType"
	inventoryGroup = 4

	// NotAvailable is the placeholder racadm prints for an unknown installation date
	NotAvailable = "NA"
)

type row struct {
	key   string
	value string
}

// ParseSoftwareInventory parses `swinventory` output.
//
// Records come as groups of four `key = value` lines:
//
//	ElementName = Intel(R) Ethernet 10G X520 LOM - 00:8C:FA:F3:78:30
//	FQDD = NIC.Embedded.1-1-1
//	InstallationDate = 2015-11-26T06:54:17Z
//	Current Version = 16.5.0
//
// A device listed twice (current and rollback firmware) is merged into one
// record. Groups are cut by position only, so output that is not made of
// aligned four-line records yields meaningless records rather than an error.
// A trailing group shorter than four lines is rejected.
func ParseSoftwareInventory(text string) (SoftwareInventory, error) {
	lines := filterLines(splitLines(text), func(line string) bool {
		return strings.Contains(line, "=") && !strings.Contains(line, inventoryNoise)
	})

	inventory := make(SoftwareInventory)
	var order []string

	for start := 0; start < len(lines); start += inventoryGroup {
		end := start + inventoryGroup
		if end > len(lines) {
			return nil, errors.Newf(errors.ErrValidation,
				"incomplete inventory record: %d of %d lines at line %d", len(lines)-start, inventoryGroup, start+1)
		}

		rows := make([]row, 0, inventoryGroup)
		for _, line := range lines[start:end] {
			rows = append(rows, normalizeRow(line))
		}

		device := strings.SplitN(rows[1].value, ":", 2)[0]
		record, seen := inventory[device]
		if seen {
			if record.InstallationDate == NotAvailable {
				record.InstallationDate = rows[2].value
			}
			if record.slot(rows[3].key) == "" {
				record.setSlot(rows[3].key, rows[3].value)
			}
			continue
		}

		record = &DeviceRecord{
			ElementName:      rows[0].value,
			FQDD:             rows[1].value,
			InstallationDate: rows[2].value,
		}
		record.setSlot(rows[3].key, rows[3].value)
		inventory[device] = record
		order = append(order, device)
	}

	return simplifyKeyNames(inventory, order), nil
}

// normalizeRow drops the first space of the key and lower-cases its first letter,
// so "Current Version" becomes "currentVersion".
func normalizeRow(line string) row {
	key, value := splitKeyValue(strings.TrimSpace(line))
	key = strings.Replace(strings.TrimSpace(key), " ", "", 1)
	if key != "" {
		key = strings.ToLower(key[:1]) + key[1:]
	}
	return row{key: key, value: strings.TrimSpace(value)}
}

func (d *DeviceRecord) slot(key string) string {
	switch key {
	case "elementName":
		return d.ElementName
	case "installationDate":
		return d.InstallationDate
	case "currentVersion":
		return d.CurrentVersion
	case "rollbackVersion":
		return d.RollbackVersion
	case "availableVersion":
		return d.AvailableVersion
	}
	return d.Extra[key]
}

func (d *DeviceRecord) setSlot(key, value string) {
	switch key {
	case "elementName":
		d.ElementName = value
	case "installationDate":
		d.InstallationDate = value
	case "currentVersion":
		d.CurrentVersion = value
	case "rollbackVersion":
		d.RollbackVersion = value
	case "availableVersion":
		d.AvailableVersion = value
	default:
		if d.Extra == nil {
			d.Extra = make(map[string]string)
		}
		d.Extra[key] = value
	}
}

// SimplifyKeyNames shortens device labels. The label part before the first ". "
// is kept alone when no other label shares it; otherwise the third dot-separated
// segment, cut at its first '-', is appended. Labels that still collide overwrite
// each other in sorted label order.
func SimplifyKeyNames(inventory SoftwareInventory) SoftwareInventory {
	keys := make([]string, 0, len(inventory))
	for key := range inventory {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return simplifyKeyNames(inventory, keys)
}

func simplifyKeyNames(inventory SoftwareInventory, keys []string) SoftwareInventory {
	prefixes := make([]string, len(keys))
	counts := make(map[string]int, len(keys))
	for i, key := range keys {
		prefixes[i] = strings.SplitN(key, ". ", 2)[0]
		counts[prefixes[i]]++
	}

	simplified := make(SoftwareInventory, len(keys))
	for i, key := range keys {
		name := prefixes[i]
		if counts[name] > 1 {
			name += labelSuffix(key)
		}
		simplified[name] = inventory[key]
	}
	return simplified
}

func labelSuffix(key string) string {
	segments := strings.Split(strings.SplitN(key, ":", 2)[0], ".")
	if len(segments) < 3 {
		return ""
	}
	return strings.SplitN(segments[2], "-", 2)[0]
}
