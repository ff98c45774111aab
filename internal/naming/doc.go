// Package naming turns naming patterns such as
// "{resource_type}-{workload}-{environment}-{region}-{instance}" into
// resource names and checks names against a resource's length, case and
// character rules.
//
// Generate and Validate are pure: identical inputs yield identical output.
package naming
