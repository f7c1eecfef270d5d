// Package generator assembles the final launcher manifest: it stamps the
// template with the revision identity and timestamps, adds the per-tag
// forge patches jar, and folds in every patch document in order.
package generator
