package conversation

// Bot copy for every stage of the dialog. Kept in one place so the
// per-stage handlers stay readable.

const (
	msgGreeting = "Hello! I'm Dr. CareBot, your DentalCare AI assistant. How can I help you today? " +
		"Would you like to schedule an appointment, inquire about services, or get directions?"

	msgHelpMenu = "I can help you with:\n" +
		"1. Scheduling appointments\n" +
		"2. Information about our services\n" +
		"3. Emergency care\n" +
		"4. Directions to our office\n" +
		"What would you like assistance with?"

	msgServiceMenu = "Great! What type of dental service do you need? Our most common services:\n" +
		"1. Routine Cleaning\n2. Filling\n3. Root Canal\n4. Whitening\n5. Crown\n6. Checkup\n7. Emergency"

	msgServicesInfo = "We offer:\n" +
		"- Comprehensive exams and cleanings\n" +
		"- Fillings and restorations\n" +
		"- Root canal therapy\n" +
		"- Crowns and bridges\n" +
		"- Teeth whitening\n" +
		"- Orthodontics\n" +
		"- Emergency care\n" +
		"Which service interests you?"

	msgEmergencyPrompt = "I understand this is urgent. Can you describe the issue? " +
		"We have emergency slots available today and tomorrow."

	msgServiceReprompt = "Could you specify which service you need? " +
		"Options: cleaning, filling, root canal, whitening, crown, checkup, or emergency."

	msgCleaningChosen = "Good choice! %q typically takes 45 minutes. " +
		"Please provide the date you'd like for your appointment (MM/DD/YYYY):"

	msgServiceChosen = "%q usually takes 1-2 hours. " +
		"Please provide the date you'd like for your appointment (MM/DD/YYYY):"

	msgDateInvalid = "Please enter a valid date in MM/DD/YYYY format."

	msgAskTime = "Perfect! Now please provide the time you'd like (e.g., 9:00 AM, 2:30 PM):"

	msgAskName = "Great! I've reserved %s at %s for %s. Now, could you please share your full name?"

	msgNameInvalid = "Please enter your full name (first and last name)."

	msgAskPhone = "Thank you, %s! Please provide your phone number so we can confirm your appointment."

	msgPhoneInvalid = "Please enter your phone number."

	msgAskEmail = "Almost done! Please provide your email address for confirmation."

	msgEmailInvalid = "Please enter a valid email address."

	msgSummary = "Here's your appointment summary:\n" +
		"Service: %s\nDate: %s\nTime: %s\nName: %s\nPhone: %s\nEmail: %s\n\n" +
		"Is this correct? Please reply with \"Yes\" to confirm or \"No\" to make changes."

	msgStartOver = "Let's start over. What type of dental service do you need?"

	msgEmergencyThanks = "Thank you for letting us know. We'll prioritize your case. " +
		"Could you please share your full name for our emergency records?"

	msgEmergencyDetailsThanks = "Thank you for sharing. " +
		"Could you please provide your full name so we can prepare for your visit?"

	msgServiceInfoDetail = "Our %s service includes:\n" +
		"- Professional assessment\n" +
		"- Detailed procedure\n" +
		"- Post-treatment care instructions\n" +
		"- Follow-up recommendations\n" +
		"Would you like to schedule this service?"

	msgServiceInfoReprompt = "Would you like more information about any specific service, " +
		"or shall we schedule an appointment?"

	msgSubmitSuccess = "🎉 Your appointment has been scheduled successfully! " +
		"A confirmation email has been sent to you. Thank you for choosing DentalCare Pro!"

	msgSubmitFailed = "There was an issue with your appointment. Would you like me to try again?"

	msgClosing = "Is there anything else I can help you with today? You can ask about our services, " +
		"schedule another appointment, or get directions to our office."

	statusProcessing    = "Processing your appointment..."
	statusConfirmed     = "Appointment confirmed and saved to our system!"
	statusSubmitError   = "Error submitting appointment. Please try again."
	serviceCleaningName = "Routine Cleaning"
	serviceEmergency    = "Emergency Care"
)

// Quick-choice sets offered alongside certain bot messages. Selecting
// one re-enters the normal utterance pipeline with the literal text.
var (
	choicesServiceMenu  = []string{"Routine Cleaning", "Filling", "Checkup", "Emergency"}
	choicesServicesInfo = []string{"Cleaning", "Whitening", "Orthodontics"}
	choicesEmergency    = []string{"Severe Pain", "Broken Tooth", "Swelling"}
	choicesHelpMenu     = []string{"Appointment", "Services", "Directions"}
	choicesConfirm      = []string{"Yes", "No"}
	choicesInfoDetail   = []string{"Schedule Now", "More Info"}
	choicesInfoGeneral  = []string{"Schedule Appointment", "More Services"}
	choicesRetry        = []string{"Try Again", "Contact Office"}
	choicesClosing      = []string{"Services", "Directions", "Contact Info"}
)
