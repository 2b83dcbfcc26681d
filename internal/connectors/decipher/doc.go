// Package decipher implements the survey platform client for the
// Decipher REST API: survey listing/search and survey.xml downloads,
// with API-key authentication, rate limiting and bounded retries.
package decipher
