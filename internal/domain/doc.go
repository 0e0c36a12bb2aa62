// Package domain models the mismanaged plastic waste dataset and the world
// topology it is drawn against.
//
// # Data Source
//
// The dataset is a cleaned CSV export kept in object storage under
// "plastic-waste-data/data_cleaned.csv". It carries one row per country with
// mismanaged plastic waste for the years 2010 and 2019, both as a national
// total and per inhabitant.
//
// # Column Conventions
//
// Header labels are taken verbatim from the upstream export:
//
//	id                                                      country id (integer)
//	Country                                                 display name
//	Total_MismanagedPlasticWaste_2010 (millionT)            million tonnes
//	Total_MismanagedPlasticWaste_2019 (millionT)            million tonnes
//	Mismanaged_PlasticWaste_PerCapita_2010 (kg per year)    kilograms per person
//	Mismanaged_PlasticWaste_PerCapita_2019 (kg per year)    kilograms per person
//
// The two per-capita labels end with a literal trailing space in the export.
// Headers are compared after trimming surrounding whitespace, so both the
// original labels and hand-edited copies without the space are accepted.
// Columns not listed above (for example a pandas index column) are ignored.
//
// Empty numeric cells are read as NaN and treated as "no data" downstream.
//
// # Identifiers
//
// Country ids share the numeric id space of the world-110m topology
// (ISO 3166-1 numeric codes). A record whose id has no feature is never drawn;
// a feature whose id has no record is drawn gray. See [GeoFeature].
package domain
