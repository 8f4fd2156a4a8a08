// Package lawharvest collects question-and-answer and judicial-precedent
// records from public legal-information sites, normalizes them into a common
// document shape, and persists them to local disk or an object store.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or the site they integrate (e.g., fs/, s3/,
// lawtalk/, easylaw/, caselaw/). The crawl/ package drives the paginated,
// checkpointed collection loop shared by all site integrations.
package lawharvest
