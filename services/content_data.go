// services/content_data.go
package services

import "github.com/Jaywinner/academy_api/model"

// defaultCatalog builds the shipped curriculum. Content is authored here
// rather than seeded into the database because it is immutable at runtime.
func defaultCatalog() map[int]model.Course {
	return map[int]model.Course{
		1: {
			ID:          1,
			Title:       "Cybersecurity Fundamentals",
			Description: "Learn the basics of cybersecurity and develop a security mindset",
			Level:       "Beginner",
			Modules: map[int]model.Module{
				1: {
					Title: "Introduction to Cybersecurity",
					Lessons: map[int]model.Lesson{
						1: {
							Title: "What is Cybersecurity?",
							Content: "Cybersecurity is the practice of protecting information, systems " +
								"and networks from digital attacks. Think of your phone as your house and " +
								"your apps as its rooms: cybersecurity is the locks, alarms and cameras. " +
								"It protects your money and identity, keeps personal data private and " +
								"maintains trust in digital services.",
							XPReward: 100,
							Exercise: &model.Exercise{
								Title:       "Security Mindset Challenge",
								Description: "Look around your digital life and identify 3 things you want to protect",
							},
						},
						2: {
							Title: "Common Cyber Threats",
							Content: "The main threat families: phishing (fake emails and sites that " +
								"steal credentials), malware (viruses, ransomware, spyware), social " +
								"engineering (psychological manipulation rather than technical tricks) " +
								"and data breaches (bulk theft from company databases). Knowing these " +
								"threats is your first line of defense.",
							XPReward: 150,
							Quiz: &model.Quiz{
								Question:    "Which threat involves tricking people psychologically rather than using technical methods?",
								Options:     []string{"Malware", "Social Engineering", "Data Breach", "Phishing"},
								Correct:     1,
								Explanation: "Social Engineering uses psychological manipulation to trick people into revealing information or performing actions.",
							},
						},
						3: {
							Title: "Building a Security Mindset",
							Content: "A security mindset means always asking what could go wrong and how " +
								"to protect yourself: question everything, assume breach, and think like " +
								"an attacker. Before posting vacation plans, ask who else learns your " +
								"house is empty.",
							XPReward: 200,
							Exercise: &model.Exercise{
								Title:       "Security Mindset Practice",
								Description: "For the next 24 hours, question 3 digital activities you normally do without thinking",
							},
						},
					},
				},
			},
		},
		2: {
			ID:          2,
			Title:       "Password Security Mastery",
			Description: "Master the art of creating and managing secure passwords",
			Level:       "Beginner",
			Modules: map[int]model.Module{
				1: {
					Title: "Password Fundamentals",
					Lessons: map[int]model.Lesson{
						1: {
							Title: "Password Strength Secrets",
							Content: "Length beats complexity. Avoid personal info, dictionary words and " +
								"common patterns; prefer 12+ characters and unique passwords per account. " +
								"The passphrase method (random words joined with separators) is easier to " +
								"remember and harder to crack than short \"complex\" passwords.",
							XPReward: 150,
							Quiz: &model.Quiz{
								Question:    "Which password is stronger?",
								Options:     []string{"P@ssw0rd123!", "Banana-Helicopter-Music-2024", "JohnSmith1990", "abc123"},
								Correct:     1,
								Explanation: "Long passphrases with random words are much stronger than short complex passwords with predictable patterns.",
							},
						},
						2: {
							Title: "Password Managers: Your Digital Vault",
							Content: "A password manager keeps one encrypted vault behind a single master " +
								"passphrase and generates a unique strong password for every site. When " +
								"one site is breached, the damage stops there: every other account still " +
								"has its own password.",
							XPReward: 200,
							Exercise: &model.Exercise{
								Title:       "Password Manager Setup",
								Description: "Install a password manager and secure your top 3 accounts with unique, strong passwords",
								Steps:       []string{"Choose a password manager", "Create a strong master password", "Add your most important accounts"},
							},
						},
						3: {
							Title: "Two-Factor Authentication (2FA)",
							Content: "2FA pairs something you know (password) with something you have " +
								"(authenticator app, hardware key). Authenticator apps beat email codes, " +
								"which beat SMS. Enable it first on email, banking and work accounts.",
							XPReward: 250,
							Quiz: &model.Quiz{
								Question:    "What percentage of automated attacks does 2FA block according to Google?",
								Options:     []string{"50%", "75%", "90%", "99.9%"},
								Correct:     3,
								Explanation: "Google's research shows that 2FA blocks 99.9% of automated attacks, making it incredibly effective.",
							},
						},
					},
				},
			},
		},
		3: {
			ID:          3,
			Title:       "Phishing Defense Academy",
			Description: "Learn to spot and avoid phishing attacks like a pro",
			Level:       "Beginner",
			Modules: map[int]model.Module{
				1: {
					Title: "Phishing Detection Mastery",
					Lessons: map[int]model.Lesson{
						1: {
							Title: "Anatomy of a Phishing Email",
							Content: "Red flags: urgent language, generic greetings, senders that almost " +
								"match real domains, links whose hover target differs from the label, and " +
								"sloppy grammar. One red flag is a warning; several together are a verdict.",
							XPReward: 175,
							Exercise: &model.Exercise{
								Title:       "Phishing Email Analysis",
								Description: "Look at your recent emails and identify any that have phishing red flags",
							},
						},
						2: {
							Title: "Social Engineering Tactics",
							Content: "Attackers lean on fear and urgency, too-good-to-be-true offers, " +
								"authority impersonation, fake familiarity and emotional manipulation. " +
								"Defend with the STOP method: Stop, Take a breath, Observe red flags, " +
								"Proceed with caution.",
							XPReward: 200,
							Quiz: &model.Quiz{
								Question:    "What should you do when someone creates urgency to get you to act quickly?",
								Options:     []string{"Act immediately to avoid problems", "Use the STOP method", "Give them what they want", "Ignore them completely"},
								Correct:     1,
								Explanation: "The STOP method helps you pause and think rationally when someone is trying to create urgency to manipulate you.",
							},
						},
						3: {
							Title: "Safe Browsing Practices",
							Content: "Check for HTTPS before logging in or paying, verify URLs character " +
								"by character, treat pop-up warnings and prizes as fake, download only " +
								"from official sources and keep the browser updated with safe-browsing " +
								"features enabled.",
							XPReward: 225,
							Exercise: &model.Exercise{
								Title:       "Browser Security Audit",
								Description: "Check and enable security features in your web browser",
								Steps:       []string{"Enable safe browsing", "Turn on pop-up blocker", "Update browser", "Install ad blocker"},
							},
						},
					},
				},
			},
		},
		4: {
			ID:          4,
			Title:       "Network Security Basics",
			Description: "Understand networks and protect your connections",
			Level:       "Intermediate",
			Modules: map[int]model.Module{
				1: {
					Title: "Understanding Networks",
					Lessons: map[int]model.Lesson{
						1: {
							Title: "How Networks Work",
							Content: "A network connects devices so they can share data: your home LAN " +
								"behind the router, the public internet beyond it, and cloud services on " +
								"top. Unencrypted traffic is a postcard; anyone handling it can read it " +
								"unless you put it in an envelope.",
							XPReward: 200,
							Quiz: &model.Quiz{
								Question:    "What does LAN stand for?",
								Options:     []string{"Large Area Network", "Local Area Network", "Limited Access Network", "Long Access Network"},
								Correct:     1,
								Explanation: "LAN stands for Local Area Network - a network that connects devices in a small area like your home or office.",
							},
						},
						2: {
							Title: "WiFi Security Essentials",
							Content: "Use WPA3 where available and WPA2 at minimum; WEP and open networks " +
								"are not acceptable. Change default router passwords, keep firmware " +
								"updated, run a guest network for visitors and disable WPS. On public " +
								"WiFi, avoid sensitive accounts or use a VPN.",
							XPReward: 250,
							Exercise: &model.Exercise{
								Title:       "WiFi Security Audit",
								Description: "Check and improve your home WiFi security settings",
								Steps:       []string{"Check WiFi encryption type", "Change default passwords", "Update router firmware", "Set up guest network", "Disable WPS"},
							},
						},
					},
				},
			},
		},
	}
}
