// Package classify derives department and tech tags from posting titles.
// Everything here is keyword-rule matching; titles are the only signal most
// boards give us consistently.
package classify

import "strings"

type deptRule struct {
	dept     string
	keywords []string
}

// Ordered: first match wins, so the specific engineering titles come before
// the broader buckets.
var deptRules = []deptRule{
	{"Engineering", []string{
		"software engineer", "backend engineer", "frontend engineer",
		"full stack engineer", "fullstack engineer", "devops engineer",
		"site reliability", "sre ", "platform engineer",
		"cloud engineer", "infrastructure engineer",
		"embedded engineer", "firmware engineer",
		"qa engineer", "test engineer", "quality engineer",
		"mobile engineer", "ios engineer", "android engineer",
		"machine learning engineer", "ml engineer",
		"software developer", "web developer",
		"backend developer", "frontend developer",
		"full stack developer", "fullstack developer",
		"java developer", "python developer", ".net developer",
		"c++ developer", "rust developer", "golang developer",
		"react developer", "angular developer", "vue developer",
		"mobile developer", "ios developer", "android developer",
		"developer", "entwickler", "ontwikkelaar",
	}},
	{"Data", []string{
		"data scientist", "data engineer", "data analyst",
		"data architect", "analytics engineer",
		"machine learning", "ml ", " ai ", "artificial intelligence",
		"business intelligence", " bi ", "data platform",
	}},
	{"Design", []string{
		"ux design", "ui design", "product design",
		"graphic design", "visual design", "interaction design",
		"ux researcher", "ux writer", "creative director",
	}},
	{"Product", []string{
		"product manager", "product owner", "product lead",
		"product director", "product analyst", "scrum master",
		"agile coach",
	}},
	{"HR", []string{
		"human resource", "people operations", "people partner",
		"people manager", "talent acqui", "recruiter",
		"recruiting", "recruitment", "hr manager",
		"hr business partner", "hrbp", "people & culture",
		"employer brand", "compensation", "payroll",
	}},
	{"Marketing", []string{
		"marketing manager", "marketing director",
		"content market", "digital market", "growth market",
		"seo ", "sem ", "social media", "brand manager",
		"communications manager", "pr manager",
		"community manager", "marketing specialist",
		"marketing coordinator", "copywriter",
	}},
	{"Sales", []string{
		"sales manager", "sales director", "sales represent",
		"account executive", "account manager",
		"business development", "sales engineer",
		"sales consultant", "inside sales", "field sales",
		"revenue ", "commercial manager",
	}},
	{"Finance", []string{
		"financial analyst", "finance manager", "accountant",
		"controller", "financial controller", "cfo ",
		"treasury", "tax ", "audit", "bookkeeper",
		"finance director", "fp&a",
	}},
	{"Legal", []string{
		"legal counsel", "lawyer", "attorney", "jurist",
		"compliance officer", "compliance manager",
		"regulatory", "legal advisor", "paralegal",
		"privacy officer", "dpo ",
	}},
	{"Operations", []string{
		"operations manager", "operations director",
		"supply chain", "logistics", "procurement",
		"facility", "warehouse", "inventory",
		"office manager", "chief operating",
	}},
	{"Customer Support", []string{
		"customer support", "customer service",
		"customer success", "helpdesk", "help desk",
		"support engineer", "support specialist",
		"technical support", "service desk",
	}},
	{"IT", []string{
		"system admin", "sysadmin", "it manager",
		"it support", "network engineer", "security engineer",
		"cybersecurity", "information security",
		"it director", "ciso", "it specialist",
	}},
}

// Department infers a department bucket from a job title. Returns "" when
// no rule matches.
func Department(title string) string {
	if title == "" {
		return ""
	}
	t := strings.ToLower(title)
	for _, rule := range deptRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				return rule.dept
			}
		}
	}
	return ""
}

type techRule struct {
	name     string
	patterns []string
}

// Patterns match against a lowercased title with delimiters collapsed to
// spaces and a space pad on both ends, so " go " only hits the word.
var techRules = []techRule{
	{"Python", []string{" python ", " python,", " python/", " python."}},
	{"JavaScript", []string{"javascript"}},
	{"TypeScript", []string{"typescript"}},
	{"Java", []string{" java ", " java,", " java/", "java developer", "java engineer",
		"java software", "java backend", "senior java", "lead java",
		"junior java", "medior java"}},
	{"C#", []string{" c# ", " c#,", ".net developer", ".net engineer", "dotnet"}},
	{"C++", []string{"c++", " cpp "}},
	{"Go", []string{" go ", " go,", " go/", "golang"}},
	{"Rust", []string{" rust ", " rust,", " rust/"}},
	{"Kotlin", []string{"kotlin"}},
	{"Scala", []string{" scala ", " scala,"}},
	{"Ruby", []string{" ruby ", " ruby,"}},
	{"PHP", []string{" php ", " php,", " php/"}},
	{"Swift", []string{" swift ", " swift,"}},
	{"React", []string{"react"}},
	{"Vue", []string{"vue.js", "vuejs", " vue ", " vue,"}},
	{"Angular", []string{"angular"}},
	{"Next.js", []string{"next.js", "nextjs"}},
	{"Svelte", []string{"svelte"}},
	{"Node.js", []string{"node.js", "nodejs"}},
	{"Django", []string{"django"}},
	{"FastAPI", []string{"fastapi"}},
	{"Spring", []string{"spring boot", " spring "}},
	{".NET", []string{" .net ", " .net,", "dotnet", "asp.net"}},
	{"Laravel", []string{"laravel"}},
	{"Rails", []string{" rails ", "ruby on rails"}},
	{"SQL", []string{" sql ", " sql,", " sql/"}},
	{"PostgreSQL", []string{"postgresql", "postgres"}},
	{"MongoDB", []string{"mongodb", "mongo "}},
	{"Redis", []string{"redis"}},
	{"Elasticsearch", []string{"elasticsearch"}},
	{"Kafka", []string{"kafka"}},
	{"Spark", []string{" spark ", " spark,", "apache spark"}},
	{"Snowflake", []string{"snowflake"}},
	{"Databricks", []string{"databricks"}},
	{"AWS", []string{" aws ", " aws,", " aws/", "amazon web services"}},
	{"Azure", []string{"azure"}},
	{"GCP", []string{" gcp ", "google cloud"}},
	{"Docker", []string{"docker"}},
	{"Kubernetes", []string{"kubernetes", " k8s "}},
	{"Terraform", []string{"terraform"}},
	{"CI/CD", []string{"ci/cd", " cicd "}},
	{"GraphQL", []string{"graphql"}},
	{"Machine Learning", []string{"machine learning"}},
	{"AI", []string{" ai ", " ai,", " ai/", "artificial intelligence",
		"generative ai", " genai ", "llm "}},
	{"DevOps", []string{"devops"}},
	{"SAP", []string{" sap ", " sap,", " sap/"}},
	{"Salesforce", []string{"salesforce"}},
	{"Power BI", []string{"power bi", "powerbi"}},
	{"Tableau", []string{"tableau"}},
}

const techDelimiters = "()[]{}|\\&"

// TechTags extracts tech stack tags from a job title, in rule order,
// deduplicated. Returns nil when nothing matches.
func TechTags(title string) []string {
	if title == "" {
		return nil
	}
	t := strings.ToLower(title)
	for _, ch := range techDelimiters {
		t = strings.ReplaceAll(t, string(ch), " ")
	}
	t = " " + t + " "
	var tags []string
	for _, rule := range techRules {
		for _, pat := range rule.patterns {
			if strings.Contains(t, pat) {
				tags = append(tags, rule.name)
				break
			}
		}
	}
	return tags
}

// TechTagString is TechTags pipe-joined for storage.
func TechTagString(title string) string {
	return strings.Join(TechTags(title), "|")
}
