package handler

// Marketing copy for the home page.

type contentBlock struct {
	Title       string
	Description string
}

var features = []contentBlock{
	{"Automated Loan Origination", "End-to-end digital loan processing from application to disbursement. Automated credit decisioning and document verification."},
	{"Real-time LTV Monitoring", "Live collateral valuation tracking with automated shortfall alerts. Trigger margin calls when LTV breaches thresholds."},
	{"Portfolio Management", "Comprehensive dashboard for active, closed, and new loans. Track repayments, write-offs, and securities with ease."},
	{"Integration Ready", "RESTful APIs for seamless integration with your core banking system. Pre-built connectors for popular platforms."},
	{"Compliance & Security", "SEBI compliant operations with complete audit trails. Bank-grade security with role-based access control."},
	{"Advanced Analytics", "Business intelligence dashboards with predictive analytics. Generate regulatory reports and performance metrics instantly."},
}

var onboardingSteps = []contentBlock{
	{"Discovery & Requirements", "Schedule a demo with our team. We understand your business needs, loan volumes, and integration requirements."},
	{"System Configuration", "Set up your organization profile, configure loan policies, LTV thresholds, and user roles with our onboarding team."},
	{"Integration & Testing", "Connect with your core banking system via APIs. Conduct UAT and test all workflows in sandbox environment."},
	{"Go Live & Support", "Launch in production with our support. Dedicated account manager and 24/7 technical support for your team."},
}

var benefits = []contentBlock{
	{"Reduce Operational Costs by 60%", "Automate manual processes and reduce staffing needs. Our platform handles everything from loan origination to closure with minimal human intervention."},
	{"Scale Without Infrastructure", "Handle 10x loan volume without adding headcount. Cloud-based architecture scales automatically with your business growth."},
	{"Minimize Credit Risk", "Real-time LTV monitoring with automated margin calls. Reduce NPAs with proactive risk management and collateral tracking."},
	{"Instant Regulatory Compliance", "Built-in compliance with RBI and SEBI guidelines. Generate audit reports and regulatory filings automatically with complete trail."},
	{"Faster Time to Market", "Launch LAMF products in weeks, not months. Pre-built workflows and integrations reduce development time by 80%."},
	{"Revenue Growth Opportunities", "Tap into the ₹5 lakh crore mutual fund market. Cross-sell to existing customers and acquire new segments with low-risk products."},
}

// sliderRange describes one calculator input.
type sliderRange struct {
	Name  string
	Label string
	Min   float64
	Max   float64
	Step  float64
}

var calculatorSliders = []sliderRange{
	{"portfolio_value", "Portfolio Value", 100000, 10000000, 100000},
	{"loan_percentage", "Loan Amount (% of portfolio)", 10, 50, 5},
	{"interest_rate", "Interest Rate (% p.a.)", 9.5, 15, 0.5},
	{"tenor_months", "Tenure (months)", 6, 36, 6},
}
