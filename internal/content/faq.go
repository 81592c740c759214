package content

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var FAQs = []FAQ{
	{
		Question: "What is NEFTIT?",
		Answer:   "NEFTIT is a gamified Web3 platform that helps you earn free NFTs and NEFT Points by completing simple social and on-chain tasks for partnered projects. You participate in campaigns, earn NFTs, and upgrade or stake them for more rewards.",
	},
	{
		Question: "How can I start using NEFTIT?",
		Answer:   "Just connect your wallet, complete tasks from any active campaign, and start earning rewards for free.",
	},
	{
		Question: "Can I sell my NEFTIT NFTs?",
		Answer:   "Yes! Once claimed, your NFTs are minted on-chain and can be listed on marketplaces.",
	},
	{
		Question: "Can I upgrade my NFT?",
		Answer:   "Yes. NEFTIT lets you burn multiple lower-tier NFTs to upgrade to a higher rarity, unlocking more NEFT Points, perks, or access in future campaigns.",
	},
	{
		Question: "What chains are supported?",
		Answer:   "You can claim NFTs on multiple chains! (depending on campaign and project).",
	},
	{
		Question: "Can I use multiple wallets or accounts?",
		Answer:   "No. NEFTIT uses strict Sybil and bot protection systems. Users trying to farm using multiple wallets or fake tasks may be flagged, lose access to rewards, or be banned.",
	},
	{
		Question: "What happens if my account is flagged?",
		Answer:   "You’ll see a warning in your dashboard. If flagged, your tasks may not count toward rewards until reviewed. Repeated abuse will result in suspension.",
	},
}
