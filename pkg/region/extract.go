package region

import "regexp"

// areaIdentifierPattern matches the path segment following /page/ or
// /resource/. Both alternatives share one capture group so the first match is
// the answer.
var areaIdentifierPattern = regexp.MustCompile(`/(?:page|resource)/([^/]+)`)

// ExtractAreaIdentifier returns the district or governorate token embedded in
// a refArea URI, e.g. "http://dbpedia.org/page/Baabda_District" yields
// "Baabda_District". Values that match neither form yield "".
func ExtractAreaIdentifier(refArea string) string {
	match := areaIdentifierPattern.FindStringSubmatch(refArea)
	if match == nil {
		return ""
	}
	return match[1]
}
