// Package template parses the declarative key template that drives
// environment-file generation for a Broadsea deployment.
//
// A template is a line-oriented file enumerating every recognized
// configuration key together with its default value, type constraint,
// required flag, and human-readable description:
//
//	############################################################
//	# Section: Host
//	############################################################
//
//	BROADSEA_HOST=127.0.0.1 # [required] Host URL without the scheme part
//	HTTP_TYPE=http # [required] [enum:http,https] Protocol served by the proxy
//	WEBAPI_MAX_HEAP=4g # JVM max heap for WebAPI
//	ATLAS_POLL_INTERVAL=60000 # [integer] Job polling interval in milliseconds
//
// Constraint tags form a bracketed prefix of the description. Recognized
// tags are [required], [integer], [boolean], [url], and [enum:a,b,c];
// untagged keys are optional free-form strings. An empty value declares a
// key with no default, which for a required key means an override source
// must supply it.
//
// Parsing collects every problem in the file (duplicate keys, malformed
// declarations, unknown tags, defaults that violate their own declared
// type) before failing, so an operator sees the complete picture in one
// run. A loaded Template is immutable.
package template
