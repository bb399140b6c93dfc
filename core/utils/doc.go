// Package utils provides common utility functions for the inventory-sync application.
// It includes the calendar date parsing and formatting helpers shared by the
// sync pipeline and the read API, and other small logic that doesn't fit into
// domain-specific packages.
package utils
