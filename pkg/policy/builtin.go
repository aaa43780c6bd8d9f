package policy

// BuiltinPolicies returns the policies shipped with the tool. They
// encode the cross-key mistakes that reliably break a Broadsea
// deployment after the environment file looked individually valid.
func BuiltinPolicies() []Policy {
	return []Policy{
		tlsCertsPolicy(),
		authBackendPolicy(),
		atlasPollIntervalPolicy(),
	}
}

// tlsCertsPolicy requires a certificate folder when the stack is served
// over https.
func tlsCertsPolicy() Policy {
	return Policy{
		Name:        "tls-certs",
		Description: "Serving over https requires a certificate folder",
		Enabled:     true,
		Tags:        []string{"tls", "host"},
		Rego: `package broadsea.policies.tls

import rego.v1

deny contains violation if {
	input.config.HTTP_TYPE == "https"
	not has_certs_folder
	violation := {
		"message": "HTTP_TYPE is https but BROADSEA_CERTS_FOLDER is not set",
		"key": "BROADSEA_CERTS_FOLDER",
		"severity": "error",
	}
}

has_certs_folder if {
	input.config.BROADSEA_CERTS_FOLDER != ""
}
`,
	}
}

// authBackendPolicy checks that every enabled authentication backend
// has the endpoint it needs, and that enabling Atlas auth without a
// provider is flagged.
func authBackendPolicy() Policy {
	return Policy{
		Name:        "auth-backend",
		Description: "Enabled authentication backends need their endpoints configured",
		Enabled:     true,
		Tags:        []string{"security"},
		Rego: `package broadsea.policies.auth

import rego.v1

deny contains violation if {
	input.config.SECURITY_AUTH_LDAP_ENABLED == "true"
	object.get(input.config, "SECURITY_LDAP_URL", "") == ""
	violation := {
		"message": "LDAP authentication is enabled but SECURITY_LDAP_URL is not set",
		"key": "SECURITY_LDAP_URL",
		"severity": "error",
	}
}

deny contains violation if {
	input.config.SECURITY_AUTH_AD_ENABLED == "true"
	object.get(input.config, "SECURITY_AD_URL", "") == ""
	violation := {
		"message": "Active Directory authentication is enabled but SECURITY_AD_URL is not set",
		"key": "SECURITY_AD_URL",
		"severity": "error",
	}
}

deny contains violation if {
	input.config.ATLAS_USER_AUTH_ENABLED == "true"
	object.get(input.config, "ATLAS_SECURITY_PROVIDER_TYPE", "none") == "none"
	violation := {
		"message": "Atlas user auth is enabled but no security provider type is configured",
		"key": "ATLAS_SECURITY_PROVIDER_TYPE",
		"severity": "warning",
	}
}
`,
	}
}

// atlasPollIntervalPolicy warns on poll intervals aggressive enough to
// hammer WebAPI.
func atlasPollIntervalPolicy() Policy {
	return Policy{
		Name:        "atlas-poll-interval",
		Description: "Atlas job polling below 1000ms puts needless load on WebAPI",
		Enabled:     true,
		Tags:        []string{"atlas"},
		Rego: `package broadsea.policies.atlas

import rego.v1

deny contains violation if {
	interval := to_number(input.config.ATLAS_POLL_INTERVAL)
	interval < 1000
	violation := {
		"message": sprintf("ATLAS_POLL_INTERVAL is %v ms; intervals below 1000ms hammer WebAPI", [interval]),
		"key": "ATLAS_POLL_INTERVAL",
		"severity": "warning",
	}
}
`,
	}
}
