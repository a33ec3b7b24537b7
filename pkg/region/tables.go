package region

// Tables bundles the static lookup data injected into the pipelines.
type Tables struct {
	Normalizer *Normalizer
	Population PopulationTable
	Centroids  CentroidTable
}

// DefaultTables returns the tables of the published dashboard.
func DefaultTables() Tables {
	return Tables{
		Normalizer: NewNormalizer(DefaultDistrictTable()),
		Population: DefaultPopulationTable(),
		Centroids:  DefaultCentroidTable(),
	}
}
