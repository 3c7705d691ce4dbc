package research

import "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/research"

// Seed returns the bundled reference corpus used when no external research
// source is configured.
func Seed() []research.Reference {
	return []research.Reference{
		{
			ID:       "ucc-2-207",
			Title:    "Battle of the Forms",
			Citation: "U.C.C. § 2-207",
			Source:   "Uniform Commercial Code",
			Body: "Additional terms in acceptance or confirmation. A definite and seasonable " +
				"expression of acceptance operates as an acceptance even though it states terms " +
				"additional to or different from those offered, unless acceptance is expressly " +
				"made conditional on assent to the additional or different terms.",
		},
		{
			ID:       "restatement-90",
			Title:    "Promissory Estoppel",
			Citation: "Restatement (Second) of Contracts § 90",
			Source:   "Restatement (Second) of Contracts",
			Body: "A promise which the promisor should reasonably expect to induce action or " +
				"forbearance on the part of the promisee and which does induce such action or " +
				"forbearance is binding if injustice can be avoided only by enforcement of the promise.",
		},
		{
			ID:       "hadley-baxendale",
			Title:    "Hadley v. Baxendale",
			Citation: "9 Ex. 341, 156 Eng. Rep. 145 (1854)",
			Source:   "Court of Exchequer",
			Body: "Consequential damages are recoverable only where they arise naturally from the " +
				"breach or were in the contemplation of both parties at the time the contract was made. " +
				"The foundational rule for limiting liability for indirect damages.",
		},
		{
			ID:       "gdpr-art-17",
			Title:    "Right to Erasure",
			Citation: "Regulation (EU) 2016/679, Article 17",
			Source:   "General Data Protection Regulation",
			Body: "The data subject shall have the right to obtain from the controller the erasure " +
				"of personal data concerning him or her without undue delay where the personal data " +
				"are no longer necessary for the purposes for which they were collected.",
		},
		{
			ID:       "dutch-bw-6-162",
			Title:    "Unlawful Act",
			Citation: "Burgerlijk Wetboek Boek 6, Artikel 162",
			Source:   "Dutch Civil Code",
			Body: "A person who commits an unlawful act toward another which can be imputed to him " +
				"must repair the damage the other person suffers as a consequence. Tortious liability " +
				"requires unlawfulness, imputability, damage, causation, and relativity.",
		},
		{
			ID:       "work-for-hire",
			Title:    "Works Made for Hire",
			Citation: "17 U.S.C. § 101",
			Source:   "United States Code",
			Body: "A work made for hire is a work prepared by an employee within the scope of his or " +
				"her employment, or a work specially ordered or commissioned if the parties expressly " +
				"agree in a written instrument signed by them that the work shall be considered a work " +
				"made for hire. Copyright vests in the hiring party.",
		},
	}
}
