package query

// The resource table below is the single source of truth for what can be
// queried. Fields are the filterable arguments Nautobot accepts on each
// root field; aliases map the vocabulary operators actually use to those
// arguments; blocks are the selection groups a caller can enable.

func fieldSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func deviceSchema() *ResourceSchema {
	return &ResourceSchema{
		Resource:  "devices",
		QueryName: "Devices",
		RootField: "devices",
		fields: fieldSet(
			"name", "location", "role", "platform", "device_type",
			"device_type__manufacturer", "tags", "tenant", "status",
			"rack", "serial", "asset_tag",
		),
		aliases: map[string]string{
			"device":       "name",
			"hostname":     "name",
			"site":         "location",
			"device_role":  "role",
			"manufacturer": "device_type__manufacturer",
			"vendor":       "device_type__manufacturer",
			"model":        "device_type",
			"tag":          "tags",
		},
		Blocks: []OutputBlock{
			{ID: "identity", Lines: []string{"id", "name"}},
			{ID: "attributes", Lines: []string{"asset_tag", "serial", "position", "face"}},
			{ID: "status", Lines: []string{"status {", "  id", "  name", "}"}},
			{ID: "role", Lines: []string{"role {", "  id", "  name", "}"}},
			{ID: "device_type", Lines: []string{
				"device_type {",
				"  id",
				"  model",
				"  manufacturer {",
				"    id",
				"    name",
				"  }",
				"}",
			}},
			{ID: "platform", Lines: []string{
				"platform {",
				"  id",
				"  name",
				"  manufacturer {",
				"    name",
				"  }",
				"}",
			}},
			{ID: "location", Lines: []string{
				"location {",
				"  id",
				"  name",
				"  location_type {",
				"    name",
				"  }",
				"  parent {",
				"    id",
				"    name",
				"    location_type {",
				"      name",
				"    }",
				"  }",
				"}",
			}},
			{ID: "rack", Lines: []string{
				"rack {",
				"  id",
				"  name",
				"  rack_group {",
				"    name",
				"  }",
				"}",
			}},
			{ID: "tenant", Lines: []string{
				"tenant {",
				"  id",
				"  name",
				"  tenant_group {",
				"    name",
				"  }",
				"}",
			}},
			{ID: "tags", Lines: []string{"tags {", "  id", "  name", "}"}},
			{ID: "primary_ip", Lines: []string{
				"primary_ip4 {",
				"  id",
				"  address",
				"  host",
				"  mask_length",
				"  dns_name",
				"  parent {",
				"    prefix",
				"  }",
				"  status {",
				"    name",
				"  }",
				"  interfaces {",
				"    id",
				"    name",
				"  }",
				"}",
			}},
			{ID: "vrfs", Lines: []string{
				"vrfs {",
				"  id",
				"  name",
				"  rd",
				"  description",
				"  namespace {",
				"    name",
				"  }",
				"}",
			}},
			{ID: "interfaces", Lines: []string{
				"interfaces {",
				"  id",
				"  name",
				"  description",
				"  enabled",
				"  mac_address",
				"  type",
				"  mode",
				"  mtu",
				"  status {",
				"    name",
				"  }",
				"  lag {",
				"    id",
				"    name",
				"  }",
				"  tagged_vlans {",
				"    vid",
				"    name",
				"  }",
				"  untagged_vlan {",
				"    vid",
				"    name",
				"  }",
				"  ip_addresses {",
				"    address",
				"    status {",
				"      name",
				"    }",
				"  }",
				"}",
			}},
			{ID: "config", Lines: []string{"config_context", "local_config_context_data"}},
			{ID: "custom_fields", Lines: []string{"_custom_field_data"}},
			{ID: "bays", Lines: []string{
				"parent_bay {",
				"  id",
				"  name",
				"}",
				"device_bays {",
				"  id",
				"  name",
				"}",
			}},
		},
		DefaultBlocks: []string{"identity"},
	}
}

func locationSchema() *ResourceSchema {
	return &ResourceSchema{
		Resource:  "locations",
		QueryName: "Locations",
		RootField: "locations",
		fields: fieldSet(
			"name", "parent", "status", "tags", "tenant", "physical_address",
			"latitude", "longitude", "racks", "vlans", "prefixes", "contact",
			"rack_groups", "created",
		),
		aliases: map[string]string{
			"location":        "name",
			"location_name":   "name",
			"site":            "name",
			"site_name":       "name",
			"parent_location": "parent",
			"parent_site":     "parent",
			"region":          "parent",
			"area":            "parent",
			"state":           "status",
			"condition":       "status",
			"tag":             "tags",
			"label":           "tags",
			"labels":          "tags",
			"customer":        "tenant",
			"organization":    "tenant",
			"org":             "tenant",
			"address":         "physical_address",
			"street_address":  "physical_address",
			"postal_address":  "physical_address",
			"lat":             "latitude",
			"long":            "longitude",
			"lng":             "longitude",
			"coordinates":     "latitude",
			"rack":            "racks",
			"cabinet":         "racks",
			"cabinets":        "racks",
			"vlan":            "vlans",
			"network":         "vlans",
			"networks":        "vlans",
			"prefix":          "prefixes",
			"subnet":          "prefixes",
			"subnets":         "prefixes",
			"ip_range":        "prefixes",
			"contact_person":  "contact",
			"admin":           "contact",
			"administrator":   "contact",
		},
		Blocks: []OutputBlock{
			{ID: "identity", Lines: []string{"id", "name"}},
			{ID: "hierarchy", Lines: []string{
				"parent {",
				"  name",
				"  location_type {",
				"    name",
				"  }",
				"}",
			}},
			{ID: "status", Lines: []string{"status {", "  id", "  name", "}"}},
			{ID: "tenant", Lines: []string{"tenant {", "  id", "  name", "}"}},
			{ID: "tags", Lines: []string{"tags {", "  id", "  name", "}"}},
			{ID: "racks", Lines: []string{
				"racks {",
				"  id",
				"  name",
				"}",
				"rack_groups {",
				"  id",
				"  name",
				"}",
			}},
			{ID: "vlans", Lines: []string{
				"vlans {",
				"  id",
				"  name",
				"  vid",
				"}",
			}},
			{ID: "prefixes", Lines: []string{
				"prefix_assignments {",
				"  id",
				"  prefix {",
				"    id",
				"    prefix",
				"  }",
				"}",
			}},
			{ID: "contacts", Lines: []string{
				"associated_contacts {",
				"  id",
				"  contact {",
				"    id",
				"    name",
				"  }",
				"}",
			}},
			{ID: "coordinates", Lines: []string{"latitude", "longitude"}},
			{ID: "addresses", Lines: []string{"physical_address", "shipping_address"}},
			{ID: "audit", Lines: []string{"created"}},
			{ID: "custom_fields", Lines: []string{"_custom_field_data"}},
		},
		DefaultBlocks: []string{"identity"},
	}
}

func ipAddressSchema() *ResourceSchema {
	return &ResourceSchema{
		Resource:  "ip_addresses",
		QueryName: "IPAddresses",
		RootField: "ip_addresses",
		fields: fieldSet(
			"address", "dns_name", "description", "type", "status", "host",
			"mask_length", "ip_version", "tags", "tenant", "parent",
		),
		aliases: map[string]string{
			"ip":         "address",
			"ip_address": "address",
			"dns":        "dns_name",
			"hostname":   "dns_name",
			"mask":       "mask_length",
			"version":    "ip_version",
			"tag":        "tags",
		},
		Blocks: []OutputBlock{
			{ID: "identity", Lines: []string{"id", "address"}},
			{ID: "attributes", Lines: []string{
				"description",
				"dns_name",
				"type",
				"host",
				"mask_length",
				"ip_version",
			}},
			{ID: "status", Lines: []string{"status {", "  id", "  name", "}"}},
			{ID: "tags", Lines: []string{"tags {", "  id", "  name", "}"}},
			{ID: "parent", Lines: []string{
				"parent {",
				"  id",
				"  network",
				"  prefix",
				"  prefix_length",
				"  namespace {",
				"    name",
				"  }",
				"}",
			}},
			{ID: "interfaces", Lines: []string{
				"interfaces {",
				"  id",
				"  name",
				"  description",
				"  enabled",
				"  mac_address",
				"  type",
				"  mode",
				"  device {",
				"    id",
				"    name",
				"  }",
				"}",
			}},
			{ID: "assignments", Lines: []string{
				"interface_assignments {",
				"  id",
				"  is_standby",
				"  is_default",
				"  is_destination",
				"  interface {",
				"    id",
				"    name",
				"    type",
				"    device {",
				"      id",
				"      name",
				"    }",
				"  }",
				"}",
			}},
			{ID: "device", Lines: []string{
				"primary_ip4_for {",
				"  id",
				"  name",
				"  role {",
				"    name",
				"  }",
				"  device_type {",
				"    model",
				"  }",
				"  platform {",
				"    name",
				"  }",
				"  location {",
				"    name",
				"  }",
				"  status {",
				"    name",
				"  }",
				"}",
			}},
			{ID: "custom_fields", Lines: []string{"_custom_field_data"}},
		},
		DefaultBlocks: []string{"identity"},
	}
}

func prefixSchema() *ResourceSchema {
	return &ResourceSchema{
		Resource:  "prefixes",
		QueryName: "Prefixes",
		RootField: "prefixes",
		fields: fieldSet(
			"prefix", "prefix_length", "within", "within_include",
			"description", "location", "status", "namespace", "tags",
			"vlan", "vrf_assignments__vrf", "ip_version",
		),
		aliases: map[string]string{
			"network": "prefix",
			"subnet":  "prefix",
			"site":    "location",
			"tag":     "tags",
			"vrf":     "vrf_assignments__vrf",
		},
		Blocks: []OutputBlock{
			{ID: "identity", Lines: []string{"id", "prefix"}},
			{ID: "attributes", Lines: []string{
				"ip_version",
				"prefix_length",
				"broadcast",
				"description",
			}},
			{ID: "status", Lines: []string{"status {", "  id", "  name", "}"}},
			{ID: "namespace", Lines: []string{"namespace {", "  id", "  name", "}"}},
			{ID: "tags", Lines: []string{"tags {", "  id", "  name", "}"}},
			{ID: "vlan", Lines: []string{
				"vlan {",
				"  id",
				"  vid",
				"  name",
				"}",
			}},
			{ID: "hierarchy", Lines: []string{
				"parent {",
				"  id",
				"  prefix",
				"  prefix_length",
				"}",
			}},
			{ID: "location", Lines: []string{
				"locations {",
				"  id",
				"  name",
				"}",
			}},
			{ID: "vrfs", Lines: []string{
				"vrf_assignments {",
				"  id",
				"  vrf {",
				"    id",
				"    name",
				"  }",
				"}",
			}},
			{ID: "custom_fields", Lines: []string{"_custom_field_data"}},
		},
		// Prefixes are broad by default; the record is small.
		DefaultBlocks: []string{
			"identity", "attributes", "status", "namespace", "tags",
			"vlan", "hierarchy", "location", "vrfs",
		},
	}
}

func interfaceSchema() *ResourceSchema {
	return &ResourceSchema{
		Resource:  "interfaces",
		QueryName: "Interfaces",
		RootField: "interfaces",
		fields: fieldSet(
			"name", "description", "enabled", "label", "type", "status",
			"role", "device", "tags",
		),
		// enabled filters as true/false, not a name list.
		booleans: fieldSet("enabled"),
		aliases: map[string]string{
			"interface":      "name",
			"interface_name": "name",
			"port":           "name",
			"port_name":      "name",
			"desc":           "description",
			"summary":        "description",
			"active":         "enabled",
			"state":          "status",
			"interface_type": "type",
			"port_type":      "type",
			"device_name":    "device",
			"host":           "device",
			"hostname":       "device",
			"tag":            "tags",
		},
		Blocks: []OutputBlock{
			{ID: "identity", Lines: []string{"id", "name"}},
			{ID: "attributes", Lines: []string{"description", "enabled", "label", "type"}},
			{ID: "status", Lines: []string{"status {", "  id", "  name", "}"}},
			{ID: "role", Lines: []string{"role {", "  id", "  name", "}"}},
			{ID: "tags", Lines: []string{"tags {", "  id", "  name", "}"}},
			{ID: "device", Lines: []string{"device {", "  id", "  name", "}"}},
			{ID: "redundancy", Lines: []string{
				"interface_redundancy_groups {",
				"  id",
				"  name",
				"}",
			}},
		},
		DefaultBlocks: []string{"identity"},
	}
}

func deviceTypeSchema() *ResourceSchema {
	return &ResourceSchema{
		Resource:  "device_types",
		QueryName: "DeviceTypes",
		RootField: "device_types",
		fields:    fieldSet("model", "manufacturer"),
		aliases: map[string]string{
			"device_model": "model",
			"name":         "model",
			"device_name":  "model",
			"type":         "model",
			"device_type":  "model",
			"vendor":       "manufacturer",
			"make":         "manufacturer",
			"brand":        "manufacturer",
			"mfg":          "manufacturer",
			"mfr":          "manufacturer",
			"oem":          "manufacturer",
			"company":      "manufacturer",
		},
		Blocks: []OutputBlock{
			{ID: "identity", Lines: []string{"id", "model"}},
			{ID: "manufacturer", Lines: []string{
				"manufacturer {",
				"  id",
				"  name",
				"}",
			}},
			{ID: "devices", Lines: []string{
				"devices {",
				"  id",
				"  name",
				"}",
			}},
		},
		DefaultBlocks: []string{"identity"},
	}
}

// DefaultStore builds the store with every supported resource. The table
// is static; a validation failure here means the table itself is broken,
// so callers treat the error as fatal.
func DefaultStore() (*Store, error) {
	return NewStore(
		deviceSchema(),
		locationSchema(),
		ipAddressSchema(),
		prefixSchema(),
		deviceTypeSchema(),
		interfaceSchema(),
	)
}
