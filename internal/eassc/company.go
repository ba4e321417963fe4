package eassc

import (
	"regexp"
	"strings"
)

var (
	companyTokenRe = regexp.MustCompile(`(?i)COMPANY[_\s]+([A-Za-z0-9]+)`)
	reportExtRe    = regexp.MustCompile(`(?i)\.(csv|xlsx?)$`)

	companyFallbacks = []*regexp.Regexp{
		regexp.MustCompile(`(?i)([A-Za-z\s]+)\.csv$`),
		regexp.MustCompile(`(?i)([A-Za-z\s]+)\.xlsx?$`),
		regexp.MustCompile(`(?i)template[_\s]+([A-Za-z0-9\s]+)`),
	}
)

// ExtractCompanyName derives a company label from a report file name, e.g.
// "SALES_EASSC_2023-2025_template_COMPANY_A.csv" yields "Company A". Names that
// match no known pattern degrade to the file name without its extension.
func ExtractCompanyName(filename string) string {
	if m := companyTokenRe.FindStringSubmatch(filename); m != nil {
		return "Company " + strings.ToUpper(m[1])
	}
	for _, re := range companyFallbacks {
		m := re.FindStringSubmatch(filename)
		if m == nil || m[1] == "" {
			continue
		}
		name := strings.TrimSpace(m[1])
		if len(name) > 1 && len(name) < 20 {
			return name
		}
	}
	return reportExtRe.ReplaceAllString(filename, "")
}
