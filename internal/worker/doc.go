// Package worker runs the periodic summary logger.
package worker
