package reply

import "appinsight/internal/domain"

// Catalog maps language → tone → category to a reply template. "{author}"
// in a template is replaced with the review author.
type Catalog map[domain.Language]map[Tone]map[Category]string

// lookup falls back to English for an unknown language and to formal for an
// unknown tone. It returns the language and tone actually used.
func (c Catalog) lookup(lang domain.Language, tone Tone, cat Category) (string, domain.Language, Tone) {
	tones, ok := c[lang]
	if !ok {
		lang = domain.LangEN
		tones = c[lang]
	}
	set, ok := tones[tone]
	if !ok {
		tone = ToneFormal
		set = tones[tone]
	}
	return set[cat], lang, tone
}

var DefaultCatalog = Catalog{
	domain.LangTR: {
		ToneFormal: {
			CategoryPositive: "Sayın Kullanıcımız,\n\nDeğerli geri bildiriminiz ve güzel sözleriniz için çok teşekkür ederiz. Sizlere en iyi deneyimi sunmak için çalışmaya devam edeceğiz.\n\nSaygılarımızla,\nDestek Ekibi",
			CategoryNegative: "Sayın Kullanıcımız,\n\nYaşadığınız olumsuz deneyimden dolayı üzgünüz. Geri bildiriminizi dikkate alarak gerekli incelemeleri başlattık.\n\nSaygılarımızla,\nDestek Ekibi",
			CategoryBug:      "Sayın Kullanıcımız,\n\nBildirdiğiniz teknik sorun için özür dileriz. Hata raporunuzu geliştirici ekibimize ilettik ve bir sonraki güncellemede düzeltilmesi için öncelik verdik.\n\nAnlayışınız için teşekkürler.",
			CategoryLogin:    "Sayın Kullanıcımız,\n\nHesabınıza erişimde yaşadığınız sorun için özür dileriz. Giriş sorunlarını öncelikli olarak inceliyoruz; destek ekibimiz size yardımcı olmaya hazır.",
			CategoryUpdate:   "Sayın Kullanıcımız,\n\nSon güncellemeyle birlikte yaşadığınız sorunu not aldık. Ekibimiz değişiklikleri gözden geçiriyor ve bir düzeltme hazırlıyor.",
			CategoryPricing:  "Sayın Kullanıcımız,\n\nFiyatlandırma politikamızla ilgili geri bildiriminiz için teşekkür ederiz. Yerel piyasa koşullarını dikkate alarak fiyatlarımızı düzenli olarak gözden geçiriyoruz.",
			CategoryUI:       "Sayın Kullanıcımız,\n\nArayüz ve tasarım hakkındaki görüşleriniz için teşekkür ederiz. Önerilerinizi tasarım ekibimizle paylaştık.",
		},
		ToneCasual: {
			CategoryPositive: "Selam {author}! 🚀\n\nHarika yorumun için teşekkürler! Beğenmene çok sevindik. Bizi takip etmeye devam et! 😎",
			CategoryNegative: "Selam,\n\nUygulamada yaşadığın sorun için gerçekten üzgünüz 😔. Bunu hemen düzeltmek istiyoruz.",
			CategoryBug:      "Selam!\n\nHata bildirimini aldık! 🛠️ Ekibimiz şu an kodların arasına daldı ve sorunu çözmeye çalışıyor.",
			CategoryLogin:    "Selam!\n\nGiriş yaparken takılman hiç hoş değil 🔑 Hemen bakıyoruz!",
			CategoryUpdate:   "Selam!\n\nGüncelleme sonrası bir şeyler ters gitmiş gibi 😕 Düzeltmesi yolda!",
			CategoryPricing:  "Selam,\n\nFiyatlar konusundaki düşüncelerini anlıyoruz. 💸 Geri bildirimini ekiple paylaştık!",
			CategoryUI:       "Selam!\n\nTasarım yorumların için sağ ol 🎨 Tasarım ekibine ilettik!",
		},
		ToneSupportive: {
			CategoryPositive: "Merhaba,\n\nGeri bildiriminiz bizim için çok değerli. İyi kullanımlar dileriz.",
			CategoryNegative: "Merhaba,\n\nBu durumu yaşadığınız için üzgünüz. Sorunu çözmek adına lütfen 'Ayarlar > Destek' bölümünden cihaz loglarınızı bizimle paylaşır mısınız?",
			CategoryBug:      "Merhaba,\n\nTeknik aksaklık için özür dileriz. Bu hata üzerinde çalışıyoruz. Lütfen uygulamanızı güncel tutun.",
			CategoryLogin:    "Merhaba,\n\nGiriş sorunları için lütfen şifre sıfırlamayı deneyin. Sorun devam ederse 'Ayarlar > Destek' üzerinden bize ulaşabilirsiniz.",
			CategoryUpdate:   "Merhaba,\n\nGüncelleme sonrası sorun yaşıyorsanız uygulamayı yeniden başlatmayı deneyin. Düzeltme bir sonraki sürümde gelecek.",
			CategoryPricing:  "Merhaba,\n\nAbonelik seçeneklerimizle ilgili endişelerinizi anlıyoruz. Size en uygun paketi bulmanız için destek ekibimize yazabilirsiniz.",
			CategoryUI:       "Merhaba,\n\nGörünüm tercihlerinizi 'Ayarlar > Görünüm' bölümünden değiştirebilirsiniz. Önerileriniz için teşekkürler.",
		},
	},
	domain.LangEN: {
		ToneFormal: {
			CategoryPositive: "Dear User, Thank you for your kind words.",
			CategoryNegative: "Dear User, We apologize for the inconvenience.",
			CategoryBug:      "Dear User, We are working on the bug you reported.",
			CategoryLogin:    "Dear User, We are sorry you had trouble accessing your account. Our team is looking into it.",
			CategoryUpdate:   "Dear User, We have noted the issue with the latest update and are preparing a fix.",
			CategoryPricing:  "Dear User, We've noted your feedback on pricing.",
			CategoryUI:       "Dear User, Thank you for your feedback on our design. We have shared it with our design team.",
		},
		ToneCasual: {
			CategoryPositive: "Thanks for the love, {author}! 🚀",
			CategoryNegative: "So sorry about that! 😔",
			CategoryBug:      "Thanks for catching that bug! 🛠️",
			CategoryLogin:    "Getting locked out is no fun 🔑 We're on it!",
			CategoryUpdate:   "Looks like the update broke something 😕 A fix is on the way!",
			CategoryPricing:  "We hear you on the pricing. 💸",
			CategoryUI:       "Thanks for the design tips! 🎨",
		},
		ToneSupportive: {
			CategoryPositive: "Thanks for your feedback!",
			CategoryNegative: "Please contact support for help.",
			CategoryBug:      "Please keep your app updated for the fix.",
			CategoryLogin:    "Please try resetting your password. If that fails, contact support.",
			CategoryUpdate:   "Please try restarting the app. A fix will ship in the next version.",
			CategoryPricing:  "Contact support for subscription help.",
			CategoryUI:       "You can adjust the look under Settings > Appearance.",
		},
	},
}
