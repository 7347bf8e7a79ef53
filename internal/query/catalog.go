package query

// dynamicParams is shared across the dynamic query tools so their surfaces
// stay uniform. Field token arguments are open-ended and carried outside
// the declared parameter set.
func dynamicParams(example string) []Param {
	return []Param{
		{
			Name:        "prompt",
			Type:        "string",
			Description: "Natural language query (e.g., " + example + ")",
		},
		{
			Name:        "outputs",
			Type:        "array",
			Description: "Output block identifiers to include in the result, or 'all' for every block",
		},
	}
}

// DefaultRegistry builds the registry every server instance starts with.
// Any registration error here is a defect in this table and is returned
// for the caller to treat as fatal.
func DefaultRegistry(store *Store) (*Registry, error) {
	r := NewRegistry(store)
	descriptors := []Descriptor{
		{
			Name:        "query_devices_dynamic",
			Description: "Query devices with dynamic filtering by any property (name, location, role, etc.) with support for lookup expressions (__ic, __isw, __iew, __re, __n, __isnull)",
			Kind:        KindGraphQL,
			Resource:    "devices",
			Params:      dynamicParams("'show device router1', 'devices with name contains router'"),
		},
		{
			Name:        "query_locations_dynamic",
			Description: "Query locations with dynamic filtering by any property (name, parent, tenant, status, etc.). Common aliases are mapped automatically (site to name, region to parent, address to physical_address)",
			Kind:        KindGraphQL,
			Resource:    "locations",
			Params:      dynamicParams("'show location datacenter1', 'locations with status active'"),
		},
		{
			Name:        "query_ip_addresses_dynamic",
			Description: "Query IP addresses with dynamic filtering by any property (address, dns_name, type, etc.) with support for lookup expressions",
			Kind:        KindGraphQL,
			Resource:    "ip_addresses",
			Params:      dynamicParams("'show ip address 192.168.1.1', 'ip addresses with dns_name contains server'"),
		},
		{
			Name:        "query_prefixes_dynamic",
			Description: "Query prefixes with dynamic filtering by any property (prefix, description, location, etc.)",
			Kind:        KindGraphQL,
			Resource:    "prefixes",
			Params:      dynamicParams("'show prefix 192.168.1.0/24', 'prefixes within 10.0.0.0/8'"),
		},
		{
			Name:        "query_device_types_dynamic",
			Description: "Query device types with dynamic filtering by any property (model, manufacturer, etc.). Common aliases are mapped automatically (name to model, vendor to manufacturer)",
			Kind:        KindGraphQL,
			Resource:    "device_types",
			Params:      dynamicParams("'show device type c9300-48p', 'device types with vendor cisco'"),
		},
		{
			Name:        "query_interfaces_dynamic",
			Description: "Query interfaces with dynamic filtering by any property (name, device, type, enabled, etc.). Boolean phrasings are understood ('active interfaces on router1' filters enabled true)",
			Kind:        KindGraphQL,
			Resource:    "interfaces",
			Params:      dynamicParams("'show interface GigabitEthernet1/0/1', 'active interfaces on router1'"),
		},
		{
			Name:        "list_custom_fields",
			Description: "List the custom field definitions configured on the backend, useful before filtering with cf_<name> tokens",
			Kind:        KindREST,
			Endpoint:    "/api/extras/custom-fields/",
		},
	}
	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}
