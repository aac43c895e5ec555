package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/uniflow-app/uniflow-api/internal/domain"
)

const extractDepartmentsPrompt = `# Department Relevance Analyzer

You are analyzing a problem draft document to identify which sub-departments within an organization should be notified for review.

## Available Sub-Departments in Organization:

The following people and their departments are available in this organization:

` + fence + `json
{departments_json}
` + fence + `

## Draft Document:

` + fence + `markdown
{draft_content}
` + fence + `

## Your Task:

1. Carefully read and understand the problem described in the draft
2. Analyze which departments would be most relevant to review and contribute to this problem
3. Consider the department descriptions to understand each department's expertise
4. Select ONLY the departments that have direct relevance to the problem

## Output Instructions:

Return ONLY a valid JSON array with the relevant people. Do not include any explanation or additional text.
Include only people whose departments are directly relevant to the problem.

Output format:
` + fence + `json
[
  {
    "name": "Person Name",
    "department": "Department Name",
    "email": "email@example.com",
    "department_description": "Description of department responsibilities"
  }
]
` + fence + `

If no departments are clearly relevant, return an empty array: []`

const personalizedProposalPrompt = `# Personalized Proposal Generator

You are creating a tailored proposal draft for a specific department based on an original problem document.

## Original Problem Draft:

` + fence + `markdown
{draft_content}
` + fence + `

## Target Department Information:

- **Department Name:** {department_name}
- **Department Description:** {department_description}
- **Recipient Name:** {recipient_name}

## Your Task:

Create a personalized proposal draft that:

1. **Addresses the problem from this department's perspective**
   - Highlight aspects most relevant to their expertise
   - Frame the problem in terms they would understand and care about

2. **Suggests specific actions or contributions**
   - What could this department contribute to solving the problem?
   - What expertise or resources might they offer?

3. **Maintains professional tone**
   - Keep it concise but comprehensive
   - Use clear, actionable language

4. **Structures the proposal clearly**
   - Use appropriate headings and sections
   - Make it easy to scan and understand

## Output Instructions:

Output a clean, professional proposal in Markdown format.
The proposal should be no longer than 500-800 words.
Do not include any meta-commentary, only output the proposal content.

---`

const finalTenderPrompt = `# Official Government Tender Document Generator

You are generating a formal tender document for publication on the eProcurement System, Government of Rajasthan.
This tender must follow strict government guidelines and include all mandatory sections.

---

## Organization Information:

**Organisation:** {organization_name}
**Department:** {department_name}
**Tender Inviting Authority:** {tender_authority}

---

## Original Problem Draft:

` + fence + `markdown
{draft_content}
` + fence + `

---

## Department Contributions (Consolidated):

The following departments have provided their input on this proposal:

{department_proposals}

---

## Your Task:

Generate a **formal tender document** that consolidates all department inputs into a unified, publication-ready tender.

### MANDATORY SECTIONS (Must Always Include):

#### 1. Tender Basic Information
` + fence + `
| Field | Value |
|-------|-------|
| Tender Reference Number | [Auto-generate: ORG/DEPT/YYYY/XXXX format] |
| Tender Title | [Clear, descriptive title from problem draft] |
| Tender Category | [Works/Goods/Services/Consultancy] |
| Tender Type | [Open/Limited/Single] |
| Organisation | {organization_name} |
| Department | {department_name} |
` + fence + `

#### 2. Critical Dates
` + fence + `
| Date Type | Date & Time |
|-----------|-------------|
| Publish Date | {publish_date} |
| Document Download Start Date | {publish_date} |
| Document Download End Date | [Publish + 7 days] |
| Clarification Start Date | [Publish + 1 day] |
| Clarification End Date | [Publish + 5 days] |
| Bid Submission Start Date | {publish_date} |
| Bid Submission End Date | [Publish + 7 days, 6:00 PM] |
| Bid Opening Date | [Bid End + 1 day, 1:00 PM] |
| Financial Bid Opening Date | [Bid Opening + 7 days] |
` + fence + `

#### 3. Tender Value & EMD
` + fence + `
| Field | Value |
|-------|-------|
| Estimated Tender Value | [Extract from draft or calculate] |
| EMD Amount | [2% of tender value] |
| Tender Fee | [As per government norms] |
| Bid Validity Period | 90 days |
` + fence + `

#### 4. Tender Inviting Authority
` + fence + `
| Field | Value |
|-------|-------|
| Name | {tender_authority} |
| Designation | [Appropriate designation] |
| Address | [Department address] |
| Contact | [Department contact] |
` + fence + `

### DYNAMIC SECTIONS (Generate from Draft & Department Inputs):

#### 5. Scope of Work
- Consolidate problem description from draft
- Integrate specific requirements from all departments
- Define clear deliverables

#### 6. Technical Specifications
- Extract technical requirements from draft
- Include department-specific technical inputs
- List mandatory compliance requirements

#### 7. Eligibility Criteria
- Minimum experience requirements
- Financial capacity requirements
- Technical capability requirements
- Registration/license requirements

#### 8. Bill of Quantities (BOQ) Summary
Generate a summary table of major work items with:
- S.No
- Description
- Unit
- Quantity
- Estimated Rate
- Estimated Amount

#### 9. Budget Allocation by Department
**IMPORTANT FOR COLLABORATIVE PROJECTS:**
If multiple departments are involved, intelligently split the budget:
- Identify each department's contribution scope
- Allocate budget proportionally based on scope
- Ensure total matches estimated tender value
- Show breakdown in table format

#### 10. Terms & Conditions
- Payment terms
- Performance guarantee requirements
- Liquidated damages clause
- Force majeure clause
- Dispute resolution mechanism

#### 11. Submission Requirements
- Documents required for technical bid
- Documents required for financial bid
- Format and packaging instructions

---

## Output Format:

Output a complete, formal tender document in Markdown format.
The document must be:
1. **Professional** - Suitable for government publication
2. **Complete** - All mandatory sections filled
3. **Consistent** - Budget totals must match across sections
4. **Clear** - Unambiguous language suitable for bidders

Do NOT include any meta-commentary. Output ONLY the tender document.

---`

const extractTenderFieldsPrompt = `# Tender Field Extractor

You are extracting key fields from a tender document to store in a database.

## Tender Document:

` + fence + `markdown
{tender_content}
` + fence + `

## Required Fields to Extract:

1. **title**: The main title of the tender (usually the first heading or a clear descriptive title)
2. **price**: The estimated tender value or total price as an INTEGER (in the local currency, no decimals). If no price is mentioned, return 0.

## Output Instructions:

Return ONLY a valid JSON object with the extracted fields. Do not include any explanation or additional text.

Output format:
` + fence + `json
{
  "title": "Extracted tender title here",
  "price": 0
}
` + fence + `

Important:
- The title should be concise but descriptive (max 500 characters)
- The price must be an integer (no decimals, no currency symbols)
- If you cannot find a price, use 0
- Do not include markdown code fences in your response, just the raw JSON`

// ExtractDepartments formats the department relevance prompt with the
// roster JSON and the submitted draft
func ExtractDepartments(draftContent, departmentsJSON string) string {
	r := strings.NewReplacer(
		"{departments_json}", departmentsJSON,
		"{draft_content}", draftContent,
	)
	return r.Replace(extractDepartmentsPrompt)
}

// PersonalizedProposal formats the per-department proposal prompt
func PersonalizedProposal(draftContent, departmentName, departmentDescription, recipientName string) string {
	if departmentDescription == "" {
		departmentDescription = "No description available"
	}
	r := strings.NewReplacer(
		"{draft_content}", draftContent,
		"{department_name}", departmentName,
		"{department_description}", departmentDescription,
		"{recipient_name}", recipientName,
	)
	return r.Replace(personalizedProposalPrompt)
}

// FinalTender formats the consolidated tender prompt. Empty organization
// fields fall back to generic government placeholders.
func FinalTender(organizationName, departmentName, tenderAuthority, draftContent, departmentProposals string, publishDate time.Time) string {
	if organizationName == "" {
		organizationName = "Government Organization"
	}
	if departmentName == "" {
		departmentName = "Department"
	}
	if tenderAuthority == "" {
		tenderAuthority = "Executive Engineer"
	}
	r := strings.NewReplacer(
		"{organization_name}", organizationName,
		"{department_name}", departmentName,
		"{tender_authority}", tenderAuthority,
		"{draft_content}", draftContent,
		"{department_proposals}", departmentProposals,
		"{publish_date}", publishDate.Format("02-Jan-2006 03:04 PM"),
	)
	return r.Replace(finalTenderPrompt)
}

// ExtractTenderFields formats the title/price extraction prompt
func ExtractTenderFields(tenderContent string) string {
	return strings.Replace(extractTenderFieldsPrompt, "{tender_content}", tenderContent, 1)
}

const (
	// contributionsBudget caps the consolidated contributions section
	contributionsBudget = 100000
	// maxCharsPerContribution is the per-department ceiling before the
	// shared budget is divided up
	maxCharsPerContribution = 5000

	summarizedMarker = "\n\n[... content summarized for context limits ...]"
)

// SummarizeContributions renders department contributions for the final
// tender prompt. Each contribution gets an equal share of the character
// budget, capped per department, so many contributors cannot blow the
// context window.
func SummarizeContributions(contributions []domain.DepartmentContribution) string {
	if len(contributions) == 0 {
		return "No department proposals available."
	}

	perContribution := contributionsBudget / len(contributions)
	if perContribution > maxCharsPerContribution {
		perContribution = maxCharsPerContribution
	}

	sections := make([]string, 0, len(contributions))
	for i, c := range contributions {
		dept := c.Department
		if dept == "" {
			dept = fmt.Sprintf("Department %d", i+1)
		}
		name := c.ContactName
		if name == "" {
			name = "Unknown"
		}
		content := c.ProposalContent
		if len(content) > perContribution {
			content = content[:perContribution] + summarizedMarker
		}
		sections = append(sections, fmt.Sprintf("\n### Department %d: %s\n**Contact:** %s\n\n%s\n\n---\n", i+1, dept, name, content))
	}

	return strings.Join(sections, "\n")
}
